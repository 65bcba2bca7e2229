package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Ledger=MockLedgerService

import (
	"context"
	"fmt"

	"hotel/infras/otel"
	"hotel/internal/domains/ledger/model"
	"hotel/internal/domains/ledger/model/dto"
	"hotel/internal/domains/ledger/repository"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Ledger appends debit and credit entries. Writes run inside the caller's transaction, and
// the caller holds the booking lock, so entries of one booking are never interleaved.
type Ledger interface {
	// RecordCharge posts the grand total of a new booking as a debit.
	RecordCharge(ctx context.Context, tx *sqlx.Tx, bookingID string, amount float64) error
	// Reconcile posts the difference between two grand totals of the same booking and
	// returns the signed delta that was posted.
	Reconcile(ctx context.Context, tx *sqlx.Tx, bookingID string, oldGrand, newGrand float64) (float64, error)
	RecordPayment(ctx context.Context, tx *sqlx.Tx, bookingID, paymentID string, amount float64, category, mode string) error
	Balance(ctx context.Context, bookingID string) (float64, error)
	Statement(ctx context.Context, bookingID string) (dto.StatementResponse, error)
	Summary(ctx context.Context) (dto.SummaryResponse, error)
}

type serviceImpl struct {
	repo repository.Ledger
	otel otel.Otel
}

func New(repo repository.Ledger, otel otel.Otel) Ledger {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) append(ctx context.Context, tx *sqlx.Tx, entry model.Entry) error {
	entry.ID = uuid.NewString()
	entry.Amount = money.Round(entry.Amount)
	entry.CreatedAt = timezone.Now()

	if entry.Amount <= 0 {
		return nil
	}

	if err := s.repo.InsertTx(ctx, tx, entry); err != nil {
		log.Error().Err(err).Str("booking_id", entry.BookingID).Msg("failed to append ledger entry")

		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	log.Debug().
		Str("booking_id", entry.BookingID).
		Str("type", string(entry.Type)).
		Float64("amount", entry.Amount).
		Msg("ledger entry appended")

	return nil
}

func (s *serviceImpl) RecordCharge(ctx context.Context, tx *sqlx.Tx, bookingID string, amount float64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.RecordCharge")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.append(ctx, tx, model.Entry{
		BookingID:   bookingID,
		Type:        model.TypeDebit,
		Amount:      amount,
		Description: model.DescriptionRoomCharges,
		ReferenceID: bookingID,
	})
}

func (s *serviceImpl) Reconcile(ctx context.Context, tx *sqlx.Tx, bookingID string, oldGrand, newGrand float64) (delta float64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	delta = money.Round(newGrand - oldGrand)

	entry := model.Entry{
		BookingID:   bookingID,
		Type:        model.TypeDebit,
		Amount:      delta,
		Description: model.DescriptionAdditionalCharge,
		ReferenceID: bookingID,
	}

	if delta < 0 {
		entry.Type = model.TypeCredit
		entry.Amount = -delta
		entry.Description = model.DescriptionReduction
	}

	if err = s.append(ctx, tx, entry); err != nil {
		return 0, err
	}

	return delta, nil
}

func (s *serviceImpl) RecordPayment(ctx context.Context, tx *sqlx.Tx, bookingID, paymentID string, amount float64, category, mode string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.RecordPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.append(ctx, tx, model.Entry{
		BookingID:   bookingID,
		Type:        model.TypeCredit,
		Amount:      amount,
		Description: model.PaymentDescription(category, mode),
		ReferenceID: paymentID,
	})
}

func (s *serviceImpl) Balance(ctx context.Context, bookingID string) (res float64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Balance")
	defer scope.End()
	defer scope.TraceIfError(err)

	totals, err := s.repo.Totals(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledger balance")

		return 0, fmt.Errorf("failed to get ledger balance: %w", err)
	}

	return money.Round(totals.Balance()), nil
}

func (s *serviceImpl) Statement(ctx context.Context, bookingID string) (res dto.StatementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Statement")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	entries, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledger entries")

		return res, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	res.FromModels(bookingID, entries)

	return res, nil
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	totals, err := s.repo.Totals(ctx, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledger summary")

		return res, fmt.Errorf("failed to get ledger summary: %w", err)
	}

	res.FromModel(totals)

	return res, nil
}
