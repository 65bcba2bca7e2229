package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/ledger/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
)

const totalsQuery = `SELECT
	COALESCE(SUM(amount) FILTER (WHERE type = 'debit'), 0) AS debit,
	COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0) AS credit,
	COUNT(id) AS entries
FROM ledger_entries`

type Ledger interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Entry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Entry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// Totals sums the entries of one booking, or of the whole ledger when bookingID is empty.
	Totals(ctx context.Context, bookingID string) (model.Totals, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Entry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Totals(ctx context.Context, bookingID string) (model.Totals, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger.Totals")
	defer scope.End()

	var (
		totals model.Totals
		err    error
	)

	if bookingID == constant.Empty {
		err = r.db.Read.GetContext(ctx, &totals, totalsQuery)
	} else {
		err = r.db.Read.GetContext(ctx, &totals, totalsQuery+" WHERE booking_id = $1", bookingID)
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return totals, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return totals, nil
}
