// Package jobs runs the periodic housekeeping of the booking engine.
package jobs

import (
	"context"
	"fmt"
	"hotel/config"
	bookingService "hotel/internal/domains/booking/service"
	metricsService "hotel/internal/domains/metrics/service"
	"hotel/shared/timezone"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const jobTimeout = 5 * time.Minute

type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	bookings bookingService.Booking
	metrics  metricsService.Metrics
}

func New(cfg *config.Config, bookings bookingService.Booking, metrics metricsService.Metrics) *Scheduler {
	c := cron.New(
		cron.WithLocation(timezone.GetLocation()),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		bookings: bookings,
		metrics:  metrics,
	}
}

// Start registers the jobs and starts the scheduler. It does nothing when the scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.Scheduler.Enable {
		log.Info().Msg("Scheduler disabled")

		return nil
	}

	jobs := map[string]func(){
		s.cfg.Scheduler.WarmMetrics:        s.WarmMetrics,
		s.cfg.Scheduler.ExpirePendingStays: s.ExpirePendingStays,
	}

	for spec, job := range jobs {
		if _, err := s.cron.AddFunc(spec, job); err != nil {
			log.Error().Err(err).Str("spec", spec).Msg("failed to register job")

			return fmt.Errorf("failed to register job %q: %w", spec, err)
		}
	}

	s.cron.Start()

	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("Scheduler stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop scheduler: %w", ctx.Err())
	}
}

// WarmMetrics computes yesterday's dashboard figures so the first read of the day hits the cache.
func (s *Scheduler) WarmMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	yesterday := timezone.FormatDate(timezone.Today().AddDate(0, 0, -1))

	if _, err := s.metrics.Metrics(ctx, yesterday, yesterday); err != nil {
		log.Error().Err(err).Str("date", yesterday).Msg("failed to warm metrics")

		return
	}

	log.Info().Str("date", yesterday).Msg("Metrics warmed")
}

// ExpirePendingStays cancels pending bookings that were never approved before their stay began.
func (s *Scheduler) ExpirePendingStays() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := s.bookings.ExpirePending(ctx, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to expire pending bookings")

		return
	}

	log.Info().Int("expired", expired).Msg("Pending bookings expired")
}
