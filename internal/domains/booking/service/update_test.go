package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/infras/otel/mocks"
	auditModel "hotel/internal/domains/audit/model"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	ledgerModel "hotel/internal/domains/ledger/model"
	ledgerService "hotel/internal/domains/ledger/service"
	riskModel "hotel/internal/domains/risk/model"
	"hotel/shared/actor"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

func TestBooking_Update(t *testing.T) {
	tests := []struct {
		name      string
		actor     actor.Actor
		status    model.Status
		req       dto.UpdateBookingRequest
		setupMock func(f *fixture)
		wantErr   error
		wantCode  int
		check     func(t *testing.T, got model.Booking)
	}{
		{
			name:   "receptionist cannot move check in",
			actor:  receptionist,
			status: model.StatusConfirmed,
			req:    dto.UpdateBookingRequest{CheckIn: ptr("2030-01-09")},
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			check: func(t *testing.T, got model.Booking) {
				assert.True(t, got.CheckIn.Equal(date("2030-01-10")))
				assert.Equal(t, 4000.0, got.TotalAmount)
			},
		},
		{
			name:   "manager moves check in and the stay is repriced",
			actor:  manager,
			status: model.StatusConfirmed,
			req:    dto.UpdateBookingRequest{CheckIn: ptr("2030-01-09")},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 6720.0).Return(2240.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), manager, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, got model.Booking) {
				assert.True(t, got.CheckIn.Equal(date("2030-01-09")))
				assert.Equal(t, 6000.0, got.TotalAmount)
			},
		},
		{
			name:   "receptionist cannot extend a confirmed stay",
			actor:  receptionist,
			status: model.StatusConfirmed,
			req:    dto.UpdateBookingRequest{CheckOut: ptr("2030-01-13")},
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			check: func(t *testing.T, got model.Booking) {
				assert.True(t, got.CheckOut.Equal(date("2030-01-12")))
			},
		},
		{
			name:   "admin extends a confirmed stay",
			actor:  admin,
			status: model.StatusConfirmed,
			req:    dto.UpdateBookingRequest{CheckOut: ptr("2030-01-13")},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 6720.0).Return(2240.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), admin, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, got model.Booking) {
				assert.True(t, got.CheckOut.Equal(date("2030-01-13")))
				assert.Equal(t, 3, got.Nights())
			},
		},
		{
			name:   "receptionist extends a pending stay",
			actor:  receptionist,
			status: model.StatusPending,
			req:    dto.UpdateBookingRequest{CheckOut: ptr("2030-01-13")},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 6720.0).Return(2240.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, got model.Booking) {
				assert.Equal(t, 6000.0, got.TotalAmount)
			},
		},
		{
			name:   "discount credits the ledger",
			actor:  receptionist,
			status: model.StatusConfirmed,
			req:    dto.UpdateBookingRequest{Discount: ptr(500.0)},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 3920.0).Return(-560.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, got model.Booking) {
				assert.Equal(t, 500.0, got.Discount)
				assert.Equal(t, 4000.0, got.TotalAmount)
			},
		},
		{
			name:   "guest edits own remarks",
			actor:  guest,
			status: model.StatusPending,
			req:    dto.UpdateBookingRequest{Remarks: ptr("late arrival")},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 4480.0).Return(0.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, got model.Booking) {
				assert.Equal(t, "late arrival", got.Remarks)
			},
		},
		{
			name:   "guest cannot edit another guest's booking",
			actor:  otherGuest,
			status: model.StatusPending,
			req:    dto.UpdateBookingRequest{Remarks: ptr("mine now")},
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), otherGuest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
		},
		{
			name:      "unchanged values write nothing",
			actor:     receptionist,
			status:    model.StatusConfirmed,
			req:       dto.UpdateBookingRequest{CheckOut: ptr("2030-01-12")},
			setupMock: func(*fixture) {},
		},
		{
			name:      "cancelled booking cannot change",
			actor:     admin,
			status:    model.StatusCancelled,
			req:       dto.UpdateBookingRequest{Remarks: ptr("reopen")},
			setupMock: func(*fixture) {},
			wantErr:   failure.ErrInvalidTransition,
		},
		{
			name:      "moving into an occupied room",
			actor:     admin,
			status:    model.StatusConfirmed,
			req:       dto.UpdateBookingRequest{RoomID: ptr(standard.ID)},
			setupMock: func(*fixture) {},
			wantErr:   failure.ErrRoomUnavailable,
		},
		{
			name:      "ac on a room without ac",
			actor:     receptionist,
			status:    model.StatusConfirmed,
			req:       dto.UpdateBookingRequest{RoomID: ptr(standard.ID), BookedAsAC: ptr(true)},
			setupMock: func(*fixture) {},
			wantCode:  400,
		},
		{
			name:      "empty request",
			actor:     admin,
			status:    model.StatusConfirmed,
			req:       dto.UpdateBookingRequest{},
			setupMock: func(*fixture) {},
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			blocker := seedBooking(model.StatusConfirmed)
			blocker.ID = "b2"
			blocker.RoomID = standard.ID
			blocker.GuestID = otherGuest.ID
			blocker.TotalAmount = 3000

			s := newStore(f, seedBooking(tt.status), blocker)
			tt.setupMock(f)

			err := f.target.Update(context.Background(), tt.actor, tt.req, "b1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				require.NoError(t, err)
			}

			if tt.check != nil {
				tt.check(t, s.get("b1"))
			}
		})
	}
}

func TestBooking_UpdateAfterConcurrentMove(t *testing.T) {
	stale := seedBooking(model.StatusConfirmed)

	moved := seedBooking(model.StatusConfirmed)
	moved.RoomID = standard.ID
	moved.TotalAmount = 3000

	t.Run("retries under the new room and keeps the move", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stale, nil).Times(1)
		s := newStore(f, moved)

		f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 3360.0, 3360.0).Return(0.0, nil)
		f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingModified, gomock.Any(), auditModel.SeverityWarning)

		err := f.target.Update(context.Background(), receptionist, dto.UpdateBookingRequest{Remarks: ptr("late arrival")}, "b1")
		require.NoError(t, err)

		got := s.get("b1")
		assert.Equal(t, standard.ID, got.RoomID)
		assert.Equal(t, 3000.0, got.TotalAmount)
		assert.Equal(t, "late arrival", got.Remarks)
	})

	t.Run("gives up with a conflict when the room keeps changing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stale, nil).Times(3)
		s := newStore(f, moved)

		err := f.target.Update(context.Background(), receptionist, dto.UpdateBookingRequest{Remarks: ptr("late arrival")}, "b1")
		require.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))

		got := s.get("b1")
		assert.Equal(t, standard.ID, got.RoomID)
		assert.Empty(t, got.Remarks)
	})
}

// memoryLedger is an append-only ledger table held in memory.
type memoryLedger struct {
	mu      sync.Mutex
	entries []ledgerModel.Entry
}

func (m *memoryLedger) InsertTx(_ context.Context, _ *sqlx.Tx, entry ledgerModel.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)

	return nil
}

func (m *memoryLedger) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]ledgerModel.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]ledgerModel.Entry(nil), m.entries...), nil
}

func (m *memoryLedger) Count(context.Context, gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries), nil
}

func (m *memoryLedger) Totals(_ context.Context, bookingID string) (ledgerModel.Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var totals ledgerModel.Totals

	for _, e := range m.entries {
		if bookingID != "" && e.BookingID != bookingID {
			continue
		}

		switch e.Type {
		case ledgerModel.TypeDebit:
			totals.Debit += e.Amount
		case ledgerModel.TypeCredit:
			totals.Credit += e.Amount
		}

		totals.Entries++
	}

	return totals, nil
}

func TestBooking_LedgerTracksInvoice(t *testing.T) {
	f := newFixture(t)
	s := newStore(f)

	ledger := ledgerService.New(&memoryLedger{}, mocks.NewOtel())
	target := f.build(ledger)

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{Score: 5}, nil)
	f.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	ctx := context.Background()

	assertBalanced := func(id string, want float64) {
		t.Helper()

		balance, err := ledger.Balance(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, want, s.get(id).Invoice().BalanceDue)
		assert.Equal(t, s.get(id).Invoice().BalanceDue, balance)
	}

	created, err := target.Create(ctx, receptionist, createRequest())
	require.NoError(t, err)
	assertBalanced(created.ID, 4480)

	require.NoError(t, target.Update(ctx, receptionist, dto.UpdateBookingRequest{BookedAsAC: ptr(true)}, created.ID))
	assertBalanced(created.ID, 5600)

	require.NoError(t, target.Update(ctx, receptionist, dto.UpdateBookingRequest{Discount: ptr(600.0)}, created.ID))
	assertBalanced(created.ID, 4928)

	require.NoError(t, ledger.RecordPayment(ctx, nil, created.ID, "p1", 2000, "advance", "upi"))
	s.pay(created.ID, 2000)
	assertBalanced(created.ID, 2928)

	statement, err := target.Statement(ctx, receptionist, created.ID)
	require.NoError(t, err)
	require.Len(t, statement.Entries, 4)
	assert.Equal(t, 2928.0, statement.Entries[len(statement.Entries)-1].Balance)
	assert.Equal(t, 2928.0, statement.Balance)
}
