package di

import (
	"context"
	"hotel/infras/genai"
	"hotel/infras/kafka"
	auditService "hotel/internal/domains/audit/service"
	"hotel/internal/jobs"
	"hotel/transport/http"

	"github.com/rs/zerolog/log"
)

// App bundles the HTTP server with the background workers that share its lifetime.
type App struct {
	HTTP      *http.HTTP
	Consumer  *auditService.Consumer
	Scheduler *jobs.Scheduler
	Recorder  auditService.Recorder
	Kafka     kafka.Client
	GenAI     genai.Client
}

// Run starts the background workers, serves HTTP and releases everything on shutdown.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())

	go a.Consumer.Run(ctx)

	if err := a.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	a.HTTP.OnShutdown(a.Scheduler.Stop)
	a.HTTP.OnShutdown(func(context.Context) error {
		cancel()
		a.Recorder.Close()

		return nil
	})
	a.HTTP.OnShutdown(func(context.Context) error {
		return a.Kafka.Close() //nolint:wrapcheck
	})
	a.HTTP.OnShutdown(func(context.Context) error {
		return a.GenAI.Close() //nolint:wrapcheck
	})

	a.HTTP.Serve()
}
