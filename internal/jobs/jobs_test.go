package jobs_test

import (
	"context"
	"errors"
	"hotel/config"
	bookingMocks "hotel/internal/domains/booking/mocks"
	metricsMocks "hotel/internal/domains/metrics/mocks"
	"hotel/internal/domains/metrics/model/dto"
	"hotel/internal/jobs"
	"hotel/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	bookings *bookingMocks.MockBookingService
	metrics  *metricsMocks.MockMetrics
	cfg      *config.Config
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	return fixture{
		bookings: bookingMocks.NewMockBookingService(ctrl),
		metrics:  metricsMocks.NewMockMetrics(ctrl),
		cfg:      &config.Config{},
	}
}

func (f fixture) scheduler() *jobs.Scheduler {
	return jobs.New(f.cfg, f.bookings, f.metrics)
}

func TestScheduler_WarmMetrics(t *testing.T) {
	f := newFixture(t)

	yesterday := timezone.FormatDate(timezone.Today().AddDate(0, 0, -1))

	f.metrics.EXPECT().Metrics(gomock.Any(), yesterday, yesterday).Return(dto.MetricsResponse{}, nil)

	f.scheduler().WarmMetrics()
}

func TestScheduler_WarmMetricsFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)

	f.metrics.EXPECT().Metrics(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.MetricsResponse{}, errors.New("db down"))

	assert.NotPanics(t, f.scheduler().WarmMetrics)
}

func TestScheduler_ExpirePendingStays(t *testing.T) {
	f := newFixture(t)

	before := timezone.Now()

	f.bookings.EXPECT().ExpirePending(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, asOf time.Time) (int, error) {
		assert.False(t, asOf.Before(before))

		return 2, nil
	})

	f.scheduler().ExpirePendingStays()
}

func TestScheduler_StartDisabled(t *testing.T) {
	f := newFixture(t)

	s := f.scheduler()

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_StartInvalidSpec(t *testing.T) {
	f := newFixture(t)
	f.cfg.Scheduler.Enable = true
	f.cfg.Scheduler.WarmMetrics = "not a cron spec"
	f.cfg.Scheduler.ExpirePendingStays = "0 15 0 * * *"

	assert.Error(t, f.scheduler().Start())
}

func TestScheduler_StartAndStop(t *testing.T) {
	f := newFixture(t)
	f.cfg.Scheduler.Enable = true
	f.cfg.Scheduler.WarmMetrics = "0 5 0 * * *"
	f.cfg.Scheduler.ExpirePendingStays = "0 15 0 * * *"

	s := f.scheduler()

	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, s.Stop(ctx))
}
