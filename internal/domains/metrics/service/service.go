package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	deletionRepo "hotel/internal/domains/deletion/repository"
	ledgerService "hotel/internal/domains/ledger/service"
	"hotel/internal/domains/metrics/model"
	"hotel/internal/domains/metrics/model/dto"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheRange     = "range"
	cacheOccupancy = "occupancy"

	defaultOccupancyDays = 3
	maxOccupancyDays     = 365
)

// Metrics is read-only. Results are cached under the metrics prefix, which every write to
// bookings, payments or deletion requests clears.
type Metrics interface {
	Metrics(ctx context.Context, startDate, endDate string) (dto.MetricsResponse, error)
	// PastOccupancy averages the nightly occupancy of the days before today.
	PastOccupancy(ctx context.Context, days int) (dto.OccupancyResponse, error)
}

type serviceImpl struct {
	bookingRepo  bookingRepo.Booking
	roomRepo     roomRepo.Room
	deletionRepo deletionRepo.Deletion
	ledger       ledgerService.Ledger
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	deletionRepo deletionRepo.Deletion,
	ledger ledgerService.Ledger,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Metrics {
	return &serviceImpl{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		deletionRepo: deletionRepo,
		ledger:       ledger,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Metrics(ctx context.Context, startDate, endDate string) (res dto.MetricsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".metrics.Metrics")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := timezone.ParseDate(startDate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	end, err := timezone.ParseDate(endDate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if end.Before(start) {
		return res, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	today := timezone.Today()
	cacheKey := shared.BuildCacheKey(constant.CacheMetricsPrefix, cacheRange, startDate, endDate, timezone.FormatDate(today))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for metrics")

		return res, nil
	}

	r := model.NewRange(start, end)

	rooms, err := s.roomRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingRepo.OverlapFilter(r.Start, r.EndExclusive()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings in range")

		return res, fmt.Errorf("failed to get bookings in range: %w", err)
	}

	res.FromRevenue(r, model.Aggregate(rooms, bookings, r))

	if err = s.fillToday(ctx, &res, today); err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save metrics to cache")
		}
	}()

	return res, nil
}

// fillToday sets the counters that always describe the current day, whatever range was asked.
func (s *serviceImpl) fillToday(ctx context.Context, res *dto.MetricsResponse, today time.Time) (err error) {
	counters := []struct {
		name    string
		dst     *int
		filters []any
	}{
		{
			name: "check-ins today",
			dst:  &res.CheckInsToday,
			filters: []any{
				statusFilter(bookingModel.StatusConfirmed),
				dateFilter(bookingModel.FieldCheckIn, today, gDto.FilterOperatorEq, "today_check_in"),
			},
		},
		{
			name: "check-outs today",
			dst:  &res.CheckOutsToday,
			filters: []any{
				statusFilter(bookingModel.StatusCheckedIn),
				dateFilter(bookingModel.FieldCheckOut, today, gDto.FilterOperatorEq, "today_check_out"),
			},
		},
		{
			name:    "occupied rooms",
			dst:     &res.OccupiedNow,
			filters: []any{statusFilter(bookingModel.StatusCheckedIn)},
		},
		{
			name: "arrived confirmed bookings",
			dst:  &res.ActiveBookings,
			filters: []any{
				statusFilter(bookingModel.StatusConfirmed),
				dateFilter(bookingModel.FieldCheckIn, today, gDto.FilterOperatorLessEq, "today_check_in"),
				dateFilter(bookingModel.FieldCheckOut, today, gDto.FilterOperatorGreater, "today_check_out"),
			},
		},
		{
			name:    "pending approvals",
			dst:     &res.PendingApprovals,
			filters: []any{statusFilter(bookingModel.StatusPending)},
		},
	}

	for _, counter := range counters {
		*counter.dst, err = s.bookingRepo.Count(ctx, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: counter.filters})
		if err != nil {
			log.Error().Err(err).Msgf("failed to count %s", counter.name)

			return fmt.Errorf("failed to count %s: %w", counter.name, err)
		}
	}

	// Guests already checked in stay active even past their scheduled check-out.
	res.ActiveBookings += res.OccupiedNow

	res.PendingDeletionRequests, err = s.deletionRepo.Count(ctx, deletionRepo.PendingFilter(constant.Empty))
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending deletion requests")

		return fmt.Errorf("failed to count pending deletion requests: %w", err)
	}

	summary, err := s.ledger.Summary(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	res.OutstandingBalance = summary.Outstanding

	return nil
}

func statusFilter(status bookingModel.Status) gDto.Filter {
	return gDto.Filter{Field: bookingModel.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName}
}

func dateFilter(field string, day time.Time, operator string, argName string) gDto.Filter {
	return gDto.Filter{Field: field, Value: day, Operator: operator, Table: bookingModel.TableName, ArgName: argName}
}

func (s *serviceImpl) PastOccupancy(ctx context.Context, days int) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".metrics.PastOccupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	if days <= 0 {
		days = defaultOccupancyDays
	}

	if days > maxOccupancyDays {
		return res, failure.BadRequestFromString(fmt.Sprintf("days must not exceed %d", maxOccupancyDays)) // nolint:wrapcheck
	}

	today := timezone.Today()
	cacheKey := shared.BuildCacheKey(constant.CacheMetricsPrefix, cacheOccupancy, timezone.FormatDate(today), days)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	rooms, err := s.roomRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	res.DaysAnalyzed = days
	res.Daily = []dto.DailyOccupancy{}

	if rooms == 0 {
		res.DaysAnalyzed = 0

		return res, nil
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingRepo.OverlapFilter(today.AddDate(0, 0, -days), today))
	if err != nil {
		log.Error().Err(err).Msg("failed to get past bookings")

		return res, fmt.Errorf("failed to get past bookings: %w", err)
	}

	var total float64

	for i := days; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		occupied := model.OccupiedOn(bookings, day)
		rate := float64(occupied) / float64(rooms) * 100

		total += rate
		res.Daily = append(res.Daily, dto.DailyOccupancy{
			Date:      timezone.FormatDate(day),
			Occupied:  occupied,
			Occupancy: money.Round(rate),
		})
	}

	res.AverageOccupancy = money.Round(total / float64(days))
	res.Low = res.AverageOccupancy < model.LowOccupancyThreshold

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy to cache")
		}
	}()

	return res, nil
}
