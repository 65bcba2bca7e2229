package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Deletion=MockDeletionService

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	auditModel "hotel/internal/domains/audit/model"
	auditService "hotel/internal/domains/audit/service"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	"hotel/internal/domains/deletion/model"
	"hotel/internal/domains/deletion/model/dto"
	"hotel/internal/domains/deletion/repository"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllDeletion = "deletion:gets"
	cacheCountDeletion  = "deletion:count"
)

type Deletion interface {
	Request(ctx context.Context, act actor.Actor, bookingID string, req dto.CreateDeletionRequest) (dto.DeletionRequestResponse, error)
	Decide(ctx context.Context, act actor.Actor, id string, req dto.DecisionRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDeletionRequestsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo        repository.Deletion
	bookingRepo bookingRepo.Booking
	booking     bookingService.Booking
	tx          postgres.Transactor
	locker      lock.Locker
	audit       auditService.Recorder
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Deletion,
	bookingRepo bookingRepo.Booking,
	booking bookingService.Booking,
	tx postgres.Transactor,
	locker lock.Locker,
	audit auditService.Recorder,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Deletion {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		booking:     booking,
		tx:          tx,
		locker:      locker,
		audit:       audit,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) deny(ctx context.Context, act actor.Actor, details string) error {
	s.audit.Record(ctx, act, auditModel.ActionUnauthorizedAttempt, details, auditModel.SeverityCritical)

	return failure.PermissionDenied(details) // nolint:wrapcheck
}

// Request files a deletion request. Filing again while one is pending is refused, so a retried
// call cannot queue the same booking twice.
func (s *serviceImpl) Request(ctx context.Context, act actor.Actor, bookingID string, req dto.CreateDeletionRequest) (res dto.DeletionRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".deletion.Request")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return res, s.deny(ctx, act, fmt.Sprintf("%s attempted to request deletion of booking %s", act.Label(), bookingID))
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.BookingNotFound(fmt.Sprintf("booking %s not found", bookingID)) // nolint:wrapcheck
	}

	release, err := s.locker.Acquire(ctx, lock.BookingKey(bookingID))
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	defer release()

	pending, err := s.repo.Exist(ctx, repository.PendingFilter(bookingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check pending deletion requests")

		return res, fmt.Errorf("failed to check pending deletion requests: %w", err)
	}

	duplicate := failure.DuplicatePendingRequest(fmt.Sprintf("booking %s already has a pending deletion request", bookingID))
	if pending {
		return res, duplicate // nolint:wrapcheck
	}

	request := req.ToModel(act, bookingID)

	if err = s.repo.Insert(ctx, request); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, duplicate // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to insert deletion request")

		return res, fmt.Errorf("failed to insert deletion request: %w", err)
	}

	s.audit.Record(ctx, act, auditModel.ActionDeletionRequest,
		fmt.Sprintf("Deletion of booking %s for %s requested: %s", bookingID, booking.GuestName(), req.Reason),
		auditModel.SeverityWarning)

	s.invalidate(ctx, bookingID)

	res.FromModel(request)

	return res, nil
}

// Decide approves or rejects a pending request. Approval removes the booking row in the same
// transaction that closes the request; its ledger entries and payments stay.
func (s *serviceImpl) Decide(ctx context.Context, act actor.Actor, id string, req dto.DecisionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".deletion.Decide")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.HasRole(constant.RoleAdmin) {
		return s.deny(ctx, act, fmt.Sprintf("%s (%s) attempted to decide deletion request %s", act.Label(), act.Role, id))
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get deletion request")

		return fmt.Errorf("failed to get deletion request: %w", err)
	}

	if request.ID == constant.Empty {
		return failure.NotFound(fmt.Sprintf("deletion request %s not found", id)) // nolint:wrapcheck
	}

	release, err := s.locker.Acquire(ctx, lock.BookingKey(request.BookingID))
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer release()

	status := model.StatusRejected
	if req.Approve {
		status = model.StatusApproved
	}

	var booking bookingModel.Booking

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get deletion request")

			return fmt.Errorf("failed to get deletion request: %w", err)
		}

		if current.Status != model.StatusPending {
			return failure.InvalidTransition(fmt.Sprintf("deletion request %s is already %s", id, current.Status)) // nolint:wrapcheck
		}

		if req.Approve {
			booking, err = s.bookingRepo.GetTx(ctx, tx, shared.FilterByID(current.BookingID, bookingModel.FieldID, bookingModel.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get booking")

				return fmt.Errorf("failed to get booking: %w", err)
			}

			if booking.ID == constant.Empty {
				return failure.BookingNotFound(fmt.Sprintf("booking %s not found", current.BookingID)) // nolint:wrapcheck
			}

			if err := s.booking.Remove(ctx, tx, current.BookingID); err != nil {
				return err //nolint:wrapcheck
			}
		}

		decidedBy := act.Label()
		fields := shared.MergeFields(map[string]any{
			model.FieldStatus:    status,
			model.FieldDecidedBy: decidedBy,
		}, decidedBy)

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update deletion request")

			return fmt.Errorf("failed to update deletion request: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if req.Approve {
		s.audit.Record(ctx, act, auditModel.ActionBookingDeleted,
			fmt.Sprintf("Booking %s for %s (%s to %s, grand total %.2f) deleted, requested by %s: %s",
				booking.ID, booking.GuestName(), timezone.FormatDate(booking.CheckIn), timezone.FormatDate(booking.CheckOut),
				booking.Invoice().GrandTotal, request.RequestedBy, request.Reason),
			auditModel.SeverityCritical)
	} else {
		s.audit.Record(ctx, act, auditModel.ActionDeletionRejected,
			fmt.Sprintf("Deletion request %s for booking %s rejected", id, request.BookingID), auditModel.SeverityInfo)
	}

	s.invalidate(ctx, request.BookingID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDeletionRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".deletion.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDeletion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for deletion requests")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	if req.SortBy == constant.Empty {
		req.SortBy = model.FieldCreatedAt
		req.SortDir = gDto.SortDirDesc
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get deletion requests")

		return res, fmt.Errorf("failed to get deletion requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save deletion requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".deletion.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDeletion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count deletion requests")

		return res, fmt.Errorf("failed to count deletion requests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save deletion request count to cache")
		}
	}()

	return res, nil
}

// invalidate drops the request listings and the booking's cached reads, which include the
// pending deletion counter of the metrics.
func (s *serviceImpl) invalidate(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDeletion)
		shared.InvalidateCaches(c, s.cache, cacheCountDeletion)
	}()

	s.booking.Invalidate(ctx, bookingID)
}
