package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	postgresMocks "hotel/infras/postgres/mocks"
	auditMocks "hotel/internal/domains/audit/mocks"
	auditModel "hotel/internal/domains/audit/model"
	bookingMocks "hotel/internal/domains/booking/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	ledgerMocks "hotel/internal/domains/ledger/mocks"
	paymentMocks "hotel/internal/domains/payment/mocks"
	"hotel/internal/domains/payment/model"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/domains/payment/service"
	"hotel/shared/actor"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
)

var (
	receptionist = actor.Actor{ID: "r1", Name: "Desk", Role: constant.RoleReceptionist}
	guest        = actor.Actor{ID: "g1", Name: "Guest", Role: constant.RoleGuest}
)

type fixture struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	booking     *bookingMocks.MockBookingService
	ledger      *ledgerMocks.MockLedgerService
	audit       *auditMocks.MockRecorder
	target      service.Payment
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	tx := postgresMocks.NewMockTransactor(ctrl)
	tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn postgres.TxFunc) error {
		return fn(ctx, nil)
	}).AnyTimes()

	f := fixture{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		booking:     bookingMocks.NewMockBookingService(ctrl),
		ledger:      ledgerMocks.NewMockLedgerService(ctrl),
		audit:       auditMocks.NewMockRecorder(ctrl),
	}

	f.target = service.New(f.repo, f.bookingRepo, f.booking, f.ledger, tx, lock.NewLocal(time.Second, mocks.NewOtel()), f.audit, mocks.NewOtel())

	return f
}

func booking() bookingModel.Booking {
	return bookingModel.Booking{ID: "b1", FirstName: "Asha", TotalAmount: 5000, GSTIncluded: true, PaidAmount: 1000}
}

func TestPayment_Pay(t *testing.T) {
	previous := model.Payment{ID: "p0", BookingID: "b1", Amount: 2000, Mode: "upi", Category: model.CategoryAdvance}

	tests := []struct {
		name      string
		actor     actor.Actor
		req       dto.CreatePaymentRequest
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
		check     func(t *testing.T, res dto.PaymentResponse)
	}{
		{
			name:  "payment raises paid amount and credits ledger",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 2000, Mode: "upi", Category: "advance"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
					assert.Nil(t, p.IdempotencyKey)
					assert.Equal(t, "Desk", p.RecordedBy)

					return nil
				})
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, 3000.0, fields[bookingModel.FieldPaidAmount])

					return nil
				})
				f.ledger.EXPECT().RecordPayment(gomock.Any(), gomock.Any(), "b1", gomock.Any(), 2000.0, "advance", "upi").Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionPaymentReceived, gomock.Any(), auditModel.SeverityInfo)
				f.booking.EXPECT().Invalidate(gomock.Any(), "b1")
			},
			check: func(t *testing.T, res dto.PaymentResponse) {
				assert.Equal(t, 2000.0, res.Amount)
				assert.False(t, res.Replayed)
			},
		},
		{
			name:  "retry with a known key returns the earlier payment",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 2000, Mode: "upi", Category: "advance", IdempotencyKey: "k1"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(previous, nil)
			},
			check: func(t *testing.T, res dto.PaymentResponse) {
				assert.Equal(t, "p0", res.ID)
				assert.True(t, res.Replayed)
			},
		},
		{
			name:  "new key is stored with the payment",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 500, Mode: "cash", Category: "food_beverage", IdempotencyKey: "k2"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Payment) error {
					require.NotNil(t, p.IdempotencyKey)
					assert.Equal(t, "k2", *p.IdempotencyKey)

					return nil
				})
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().RecordPayment(gomock.Any(), gomock.Any(), "b1", gomock.Any(), 500.0, "food_beverage", "cash").Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionPaymentReceived, gomock.Any(), auditModel.SeverityInfo)
				f.booking.EXPECT().Invalidate(gomock.Any(), "b1")
			},
			check: func(t *testing.T, res dto.PaymentResponse) {
				assert.False(t, res.Replayed)
			},
		},
		{
			name:  "concurrent insert with same key",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 500, Mode: "cash", Category: "other", IdempotencyKey: "k3"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
		{
			name:      "zero amount",
			actor:     receptionist,
			req:       dto.CreatePaymentRequest{Amount: 0, Mode: "cash", Category: "other"},
			setupMock: func(fixture) {},
			wantErr:   failure.ErrInvalidAmount,
		},
		{
			name:      "amount rounding to zero",
			actor:     receptionist,
			req:       dto.CreatePaymentRequest{Amount: 0.001, Mode: "cash", Category: "other"},
			setupMock: func(fixture) {},
			wantErr:   failure.ErrInvalidAmount,
		},
		{
			name:      "negative amount",
			actor:     receptionist,
			req:       dto.CreatePaymentRequest{Amount: -100, Mode: "cash", Category: "other"},
			setupMock: func(fixture) {},
			wantErr:   failure.ErrInvalidAmount,
		},
		{
			name:  "unknown booking",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 100, Mode: "cash", Category: "other"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr: failure.ErrBookingNotFound,
		},
		{
			name:  "guest cannot record payments",
			actor: guest,
			req:   dto.CreatePaymentRequest{Amount: 100, Mode: "cash", Category: "other"},
			setupMock: func(f fixture) {
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
		},
		{
			name:  "ledger failure rolls back",
			actor: receptionist,
			req:   dto.CreatePaymentRequest{Amount: 100, Mode: "cash", Category: "other"},
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(), nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().RecordPayment(gomock.Any(), gomock.Any(), "b1", gomock.Any(), 100.0, "other", "cash").Return(errors.New("disk full"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.target.Pay(context.Background(), tt.actor, "b1", tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
				tt.check(t, res)
			}
		})
	}
}

func TestPayment_List(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Payment{
		{ID: "p1", BookingID: "b1", Amount: 1000.5, Category: model.CategoryAdvance},
		{ID: "p2", BookingID: "b1", Amount: 4599.5, Category: model.CategoryFinalSettlement},
	}, nil)

	res, err := f.target.List(context.Background(), "b1")
	require.NoError(t, err)

	assert.Len(t, res.Payments, 2)
	assert.Equal(t, 5600.0, res.Total)
	assert.Equal(t, "final_settlement", res.Payments[1].Category)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err = f.target.List(context.Background(), "b1")
	assert.Error(t, err)
}
