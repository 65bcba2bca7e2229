package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Payment=MockPaymentService

import (
	"context"
	"fmt"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	auditModel "hotel/internal/domains/audit/model"
	auditService "hotel/internal/domains/audit/service"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	ledgerService "hotel/internal/domains/ledger/service"
	"hotel/internal/domains/payment/model"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/domains/payment/repository"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
	"hotel/shared/money"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	// Pay records money received against a booking. A request repeating an idempotency key
	// already used for the booking returns the earlier payment and changes nothing.
	Pay(ctx context.Context, act actor.Actor, bookingID string, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	List(ctx context.Context, bookingID string) (dto.GetPaymentsResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	booking     bookingService.Booking
	ledger      ledgerService.Ledger
	tx          postgres.Transactor
	locker      lock.Locker
	audit       auditService.Recorder
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	booking bookingService.Booking,
	ledger ledgerService.Ledger,
	tx postgres.Transactor,
	locker lock.Locker,
	audit auditService.Recorder,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		booking:     booking,
		ledger:      ledger,
		tx:          tx,
		locker:      locker,
		audit:       audit,
		otel:        otel,
	}
}

func (s *serviceImpl) Pay(ctx context.Context, act actor.Actor, bookingID string, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Pay")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		details := fmt.Sprintf("%s attempted to record a payment on booking %s", act.Label(), bookingID)
		s.audit.Record(ctx, act, auditModel.ActionUnauthorizedAttempt, details, auditModel.SeverityCritical)

		return res, failure.PermissionDenied(details) // nolint:wrapcheck
	}

	payment := req.ToModel(act, bookingID)
	if payment.Amount <= 0 {
		return res, failure.InvalidAmount(fmt.Sprintf("payment amount must be positive, got %.2f", req.Amount)) // nolint:wrapcheck
	}

	release, err := s.locker.Acquire(ctx, lock.BookingKey(bookingID))
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	defer release()

	var (
		booking  bookingModel.Booking
		replayed bool
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		booking, err = s.bookingRepo.GetTx(ctx, tx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.BookingNotFound(fmt.Sprintf("booking %s not found", bookingID)) // nolint:wrapcheck
		}

		if payment.IdempotencyKey != nil {
			previous, err := s.repo.GetTx(ctx, tx, repository.KeyFilter(bookingID, *payment.IdempotencyKey))
			if err != nil {
				log.Error().Err(err).Msg("failed to look up idempotency key")

				return fmt.Errorf("failed to look up idempotency key: %w", err)
			}

			if previous.ID != constant.Empty {
				payment = previous
				replayed = true

				return nil
			}
		}

		if err := s.repo.InsertTx(ctx, tx, payment); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return failure.Conflict("payment with this idempotency key is already being recorded") // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to insert payment")

			return fmt.Errorf("failed to insert payment: %w", err)
		}

		fields := shared.MergeFields(map[string]any{
			bookingModel.FieldPaidAmount: money.Round(booking.PaidAmount + payment.Amount),
		}, act.Label())

		if err := s.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update paid amount")

			return fmt.Errorf("failed to update paid amount: %w", err)
		}

		return s.ledger.RecordPayment(ctx, tx, bookingID, payment.ID, payment.Amount, string(payment.Category), payment.Mode) //nolint:wrapcheck
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(payment)
	res.Replayed = replayed

	if replayed {
		log.Info().Str("booking_id", bookingID).Str("payment_id", payment.ID).Msg("payment replayed from idempotency key")

		return res, nil
	}

	s.audit.Record(ctx, act, auditModel.ActionPaymentReceived,
		fmt.Sprintf("Payment of %.2f (%s, %s) received for booking %s of %s", payment.Amount, payment.Category, payment.Mode, bookingID, booking.GuestName()),
		auditModel.SeverityInfo)

	s.booking.Invalidate(ctx, bookingID)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, bookingID string) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.List")
	defer scope.End()
	defer scope.TraceIfError(err)

	payments, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}, repository.BookingFilter(bookingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(payments)

	return res, nil
}
