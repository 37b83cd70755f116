package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alimikegami/point-of-sales/product-quantity-service/internal/metrics"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

type StoreChecker interface {
	CheckStore(ctx context.Context) error
}

// HealthStatus holds the result of the last store check.
type HealthStatus struct {
	up atomic.Bool
}

func (h *HealthStatus) IsUp() bool {
	return h.up.Load()
}

func (h *HealthStatus) Check(ctx context.Context, checker StoreChecker, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := checker.CheckStore(ctx); err != nil {
		if h.up.Swap(false) {
			log.Error().Err(err).Str("component", "HealthCheck").Msg("product store is unreachable")
		}
		metrics.StoreUp.Set(0)
		return
	}

	if !h.up.Swap(true) {
		log.Info().Str("component", "HealthCheck").Msg("product store is reachable")
	}
	metrics.StoreUp.Set(1)
}

// StartHealthCheck pings the store every interval, starting immediately.
func StartHealthCheck(interval time.Duration, checker StoreChecker, status *HealthStatus) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	// add a job to the scheduler
	_, err = s.NewJob(
		gocron.DurationJob(
			interval,
		),
		gocron.NewTask(
			func() {
				status.Check(context.Background(), checker, interval/2)
			},
		),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	s.Start()

	return s, nil
}
