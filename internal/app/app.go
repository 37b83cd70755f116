package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alimikegami/point-of-sales/product-quantity-service/config"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/controller"
	circuitbreaker "github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/scheduler"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/point-of-sales/product-quantity-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/service"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type eventPublisher interface {
	service.EventPublisher
	Close() error
}

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo
	Health *scheduler.HealthStatus

	metricsServer *echo.Echo
	publisher     eventPublisher
	scheduler     gocron.Scheduler
	traceProvider *sdktrace.TracerProvider
}

// Start builds the service graph once and serves until the server stops.
func (app *App) Start() error {
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	}
	app.traceProvider = traceProvider

	if app.Config.KafkaConfig.BrokerAddress != "" {
		cb := circuitbreaker.CreateCircuitBreaker("product-quantity-events")
		app.publisher = kafka.CreateKafkaPublisher(app.Config, cb)
	} else {
		log.Warn().Msg("BROKER_ADDRESS is not set, quantity update events are disabled")
		app.publisher = kafka.NoopPublisher{}
	}

	mongoDBRepo := repository.CreateNewMongoDBRepository(app.DB, app.Config.MongoDBConfig)
	svc := service.CreateProductService(mongoDBRepo, app.publisher)

	app.Health = &scheduler.HealthStatus{}
	app.scheduler, err = scheduler.StartHealthCheck(app.Config.HealthCheck, svc, app.Health)
	if err != nil {
		return fmt.Errorf("starting health check: %w", err)
	}

	app.Setup(svc)

	app.metricsServer = echo.New()
	app.metricsServer.HideBanner = true
	app.metricsServer.GET("/metrics", echoprometheus.NewHandler())

	go func() {
		if err := app.metricsServer.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	log.Info().Str("port", app.Config.ServicePort).Bool("optimistic_concurrency", app.Config.MongoDBConfig.OptimisticConcurrency).
		Msg("product quantity service started")

	err = app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Setup creates the HTTP server and registers every route.
func (app *App) Setup(svc service.ProductService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(localmiddleware.Tracing(otel.Tracer(tracing.ServiceName)))

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	e.Use(localmiddleware.Logger)

	g := e.Group("/api")
	controller.CreateProductController(g, svc)

	g.GET("/v1/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, World!")
	})

	g.GET("/v1/health", func(c echo.Context) error {
		if app.Health == nil || !app.Health.IsUp() {
			return c.String(http.StatusServiceUnavailable, "Store unavailable")
		}
		return c.String(http.StatusOK, "OK")
	})

	app.Server = e

	return e
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error

	if app.Server != nil {
		errList = append(errList, app.Server.Shutdown(ctx))
	}
	if app.metricsServer != nil {
		errList = append(errList, app.metricsServer.Shutdown(ctx))
	}
	if app.scheduler != nil {
		errList = append(errList, app.scheduler.Shutdown())
	}
	if app.publisher != nil {
		errList = append(errList, app.publisher.Close())
	}
	if app.traceProvider != nil {
		errList = append(errList, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errList...)
}
