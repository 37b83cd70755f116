package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimikegami/point-of-sales/product-quantity-service/config"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/app"
	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/infrastructure/database/mongodb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	config := config.CreateNewConfig()
	if config.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		zerolog.DefaultContextLogger = &log.Logger
	}

	db, err := mongodb.ConnectToMongoDB(config.MongoDBConfig.ConnectionURI(), config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	defer db.Client().Disconnect(context.Background())

	server := app.App{
		DB:     db,
		Config: config,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		if err := server.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server cleanly")
		}
	}()

	if err := server.Start(); err != nil {
		log.Error().Err(err).Msg("Server stopped")
	}
}
