package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"time"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/s3"
	auditModel "hotel/internal/domains/audit/model"
	auditService "hotel/internal/domains/audit/service"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	"hotel/internal/domains/invoice"
	ledgerDto "hotel/internal/domains/ledger/model/dto"
	ledgerService "hotel/internal/domains/ledger/service"
	riskService "hotel/internal/domains/risk/service"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	riskCriticalScore = 80
	idProofDirectory  = "id-proofs"
)

type Booking interface {
	Create(ctx context.Context, act actor.Actor, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Approve(ctx context.Context, act actor.Actor, id string) error
	Reject(ctx context.Context, act actor.Actor, id string) error
	Cancel(ctx context.Context, act actor.Actor, id string) error
	CheckIn(ctx context.Context, act actor.Actor, id string) error
	CheckOut(ctx context.Context, act actor.Actor, id string) error
	Update(ctx context.Context, act actor.Actor, req dto.UpdateBookingRequest, id string) error
	ExpirePending(ctx context.Context, asOf time.Time) (int, error)

	// Get, Invoice and Statement let staff read any booking and a guest only their own.
	Get(ctx context.Context, act actor.Actor, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	GetMine(ctx context.Context, act actor.Actor, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Invoice(ctx context.Context, act actor.Actor, id string) (invoice.Invoice, error)
	Statement(ctx context.Context, act actor.Actor, id string) (ledgerDto.StatementResponse, error)
	FindGuestByPhone(ctx context.Context, phone string) (dto.GuestResponse, error)
	Risky(ctx context.Context, minScore int) (dto.GetRiskyBookingsResponse, error)
	CheckAvailability(ctx context.Context, roomID, checkIn, checkOut string) (dto.AvailabilityResponse, error)

	// Remove deletes the booking row inside the caller's transaction. Its ledger entries and
	// payments are kept.
	Remove(ctx context.Context, tx *sqlx.Tx, id string) error
	// Invalidate drops cached reads of the booking and every aggregate derived from bookings.
	Invalidate(ctx context.Context, id string)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	ledger   ledgerService.Ledger
	tx       postgres.Transactor
	locker   lock.Locker
	scorer   riskService.Scorer
	audit    auditService.Recorder
	s3       s3.S3
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	ledger ledgerService.Ledger,
	tx postgres.Transactor,
	locker lock.Locker,
	scorer riskService.Scorer,
	audit auditService.Recorder,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		ledger:   ledger,
		tx:       tx,
		locker:   locker,
		scorer:   scorer,
		audit:    audit,
		s3:       s3,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// deny records a refused operation at critical severity and returns PermissionDenied.
func (s *serviceImpl) deny(ctx context.Context, act actor.Actor, details string) error {
	s.audit.Record(ctx, act, auditModel.ActionUnauthorizedAttempt, details, auditModel.SeverityCritical)

	return failure.PermissionDenied(details) // nolint:wrapcheck
}

// ensureOwner refuses a guest access to a booking made for somebody else.
func (s *serviceImpl) ensureOwner(ctx context.Context, act actor.Actor, bookingID, guestID string) error {
	if act.IsStaff() || guestID == act.ID {
		return nil
	}

	return s.deny(ctx, act, fmt.Sprintf("%s attempted to access booking %s of another guest", act.Label(), bookingID))
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.BookingNotFound(fmt.Sprintf("booking %s not found", id)) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) findTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.BookingNotFound(fmt.Sprintf("booking %s not found", id)) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) findRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound(fmt.Sprintf("room %s not found", id)) // nolint:wrapcheck
	}

	return room, nil
}

// ensureAvailable loads the room schedule inside tx and rejects the stay when it conflicts.
func (s *serviceImpl) ensureAvailable(ctx context.Context, tx *sqlx.Tx, roomID string, start, end time.Time, excludeID string) error {
	schedule, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, repository.RoomScheduleFilter(roomID, start))
	if err != nil {
		log.Error().Err(err).Msg("failed to load room schedule")

		return fmt.Errorf("failed to load room schedule: %w", err)
	}

	if !IsAvailable(roomID, start, end, schedule, excludeID) {
		msg := fmt.Sprintf("room is already booked between %s and %s", timezone.FormatDate(start), timezone.FormatDate(end))

		return failure.RoomUnavailable(msg) // nolint:wrapcheck
	}

	return nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	start, err := timezone.ParseDate(checkIn)
	if err != nil {
		return start, start, failure.BadRequest(err) // nolint:wrapcheck
	}

	end, err := timezone.ParseDate(checkOut)
	if err != nil {
		return start, end, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !end.After(start) {
		return start, end, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	return start, end, nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID, checkIn, checkOut string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := parseStay(checkIn, checkOut)
	if err != nil {
		return res, err
	}

	if _, err = s.findRoom(ctx, roomID); err != nil {
		return res, err
	}

	schedule, err := s.repo.GetAll(ctx, gDto.QueryParams{}, repository.RoomScheduleFilter(roomID, start))
	if err != nil {
		log.Error().Err(err).Msg("failed to load room schedule")

		return res, fmt.Errorf("failed to load room schedule: %w", err)
	}

	res = dto.AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   timezone.FormatDate(start),
		CheckOut:  timezone.FormatDate(end),
		Available: IsAvailable(roomID, start, end, schedule, constant.Empty),
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	if req.SortBy == constant.Empty {
		req.SortBy = model.FieldCheckIn
		req.SortDir = gDto.SortDirDesc
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, act actor.Actor, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldGuestID, Value: act.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Get(ctx context.Context, act actor.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if err := s.ensureOwner(ctx, act, id, res.GuestID); err != nil {
			return dto.BookingResponse{}, err
		}

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err := s.ensureOwner(ctx, act, id, booking.GuestID); err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Invoice(ctx context.Context, act actor.Actor, id string) (res invoice.Invoice, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Invoice")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err := s.ensureOwner(ctx, act, id, booking.GuestID); err != nil {
		return res, err
	}

	return booking.Invoice(), nil
}

func (s *serviceImpl) Statement(ctx context.Context, act actor.Actor, id string) (res ledgerDto.StatementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Statement")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		booking, err := s.find(ctx, id)
		if err != nil {
			return res, err
		}

		if err := s.ensureOwner(ctx, act, id, booking.GuestID); err != nil {
			return res, err
		}
	}

	return s.ledger.Statement(ctx, id) //nolint:wrapcheck
}

func (s *serviceImpl) FindGuestByPhone(ctx context.Context, phone string) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.FindGuestByPhone")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldPhone, Value: phone, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	visits, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count guest visits")

		return res, fmt.Errorf("failed to count guest visits: %w", err)
	}

	if visits == 0 {
		return res, failure.NotFound("no previous stay for this phone number") // nolint:wrapcheck
	}

	latest, err := s.repo.GetAll(ctx, gDto.QueryParams{Limit: 1, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest guest booking")

		return res, fmt.Errorf("failed to get latest guest booking: %w", err)
	}

	if len(latest) == 0 {
		return res, failure.NotFound("no previous stay for this phone number") // nolint:wrapcheck
	}

	res.FromModel(latest[0], visits)

	return res, nil
}

func (s *serviceImpl) Risky(ctx context.Context, minScore int) (res dto.GetRiskyBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Risky")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRiskScore, Value: minScore, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
			repository.ActiveFilter(),
		},
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldRiskScore, SortDir: gDto.SortDirDesc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get risky bookings")

		return res, fmt.Errorf("failed to get risky bookings: %w", err)
	}

	res.FromModels(models, riskCriticalScore)

	return res, nil
}

func (s *serviceImpl) Remove(ctx context.Context, tx *sqlx.Tx, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Remove")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.Invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, constant.CacheMetricsPrefix)
	}()
}
