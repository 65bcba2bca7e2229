package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	postgresMocks "hotel/infras/postgres/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	auditMocks "hotel/internal/domains/audit/mocks"
	auditModel "hotel/internal/domains/audit/model"
	bookingMocks "hotel/internal/domains/booking/mocks"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	ledgerDto "hotel/internal/domains/ledger/model/dto"
	ledgerMocks "hotel/internal/domains/ledger/mocks"
	ledgerService "hotel/internal/domains/ledger/service"
	riskMocks "hotel/internal/domains/risk/mocks"
	riskModel "hotel/internal/domains/risk/model"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/actor"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
	"hotel/shared/timezone"
)

var (
	admin        = actor.Actor{ID: "a1", Name: "Admin", Role: constant.RoleAdmin}
	manager      = actor.Actor{ID: "m1", Name: "Manager", Role: constant.RoleManager}
	receptionist = actor.Actor{ID: "r1", Name: "Desk", Role: constant.RoleReceptionist}
	housekeeper  = actor.Actor{ID: "h1", Name: "Keeper", Role: constant.RoleHousekeeping}
	guest        = actor.Actor{ID: "g1", Name: "Guest", Role: constant.RoleGuest}
	otherGuest   = actor.Actor{ID: "g2", Name: "Other", Role: constant.RoleGuest}

	acRate = 2500.0

	deluxe   = roomModel.Room{ID: "r1", Number: "101", Type: roomModel.TypeDeluxe, BaseRate: 2000, ACRate: &acRate}
	standard = roomModel.Room{ID: "r2", Number: "102", Type: roomModel.TypeStandard, BaseRate: 1500}
)

func date(value string) time.Time {
	d, err := timezone.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return d
}

func ptr[T any](v T) *T {
	return &v
}

type fixture struct {
	repo   *bookingMocks.MockBooking
	rooms  *roomMocks.MockRoom
	ledger *ledgerMocks.MockLedgerService
	tx     *postgresMocks.MockTransactor
	scorer *riskMocks.MockScorer
	audit  *auditMocks.MockRecorder
	s3     *s3Mocks.MockS3
	cache  *cacheMocks.MockRedisCache
	cfg    *config.Config
	locker lock.Locker
	target service.Booking
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.CheckoutTolerance = 1
	cfg.Booking.RiskWarnThreshold = 80

	f := &fixture{
		repo:   bookingMocks.NewMockBooking(ctrl),
		rooms:  roomMocks.NewMockRoom(ctrl),
		ledger: ledgerMocks.NewMockLedgerService(ctrl),
		tx:     postgresMocks.NewMockTransactor(ctrl),
		scorer: riskMocks.NewMockScorer(ctrl),
		audit:  auditMocks.NewMockRecorder(ctrl),
		s3:     s3Mocks.NewMockS3(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		cfg:    cfg,
		locker: lock.NewLocal(time.Second, mocks.NewOtel()),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn postgres.TxFunc) error {
		return fn(ctx, nil)
	}).AnyTimes()

	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
		switch idOf(filter) {
		case deluxe.ID:
			return deluxe, nil
		case standard.ID:
			return standard, nil
		}

		return roomModel.Room{}, nil
	}).AnyTimes()

	f.target = f.build(f.ledger)

	return f
}

func (f *fixture) build(ledger ledgerService.Ledger) service.Booking {
	return service.New(f.repo, f.rooms, ledger, f.tx, f.locker, f.scorer, f.audit, f.s3, f.cfg, f.cache, mocks.NewOtel())
}

func idOf(filter gDto.FilterGroup) string {
	id, _ := filter.Filters[0].(gDto.Filter).Value.(string)

	return id
}

// store backs the booking repository mock with an in-memory table.
type store struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newStore(f *fixture, seed ...model.Booking) *store {
	s := &store{bookings: map[string]model.Booking{}}
	for _, b := range seed {
		s.bookings[b.ID] = b
	}

	get := func(filter gDto.FilterGroup) model.Booking {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.bookings[idOf(filter)]
	}

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
		return get(filter), nil
	}).AnyTimes()

	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
		return get(filter), nil
	}).AnyTimes()

	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *sqlx.Tx, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.Booking, error) {
		return s.all(), nil
	}).AnyTimes()

	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.bookings[b.ID] = b

		return nil
	}).AnyTimes()

	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		b := s.bookings[idOf(filter)]
		apply(&b, fields)
		s.bookings[b.ID] = b

		return nil
	}).AnyTimes()

	return s
}

func (s *store) all() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		res = append(res, b)
	}

	return res
}

func (s *store) get(id string) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookings[id]
}

func (s *store) pay(id string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookings[id]
	b.PaidAmount += amount
	s.bookings[id] = b
}

func apply(b *model.Booking, fields map[string]any) {
	for field, value := range fields {
		switch field {
		case model.FieldStatus:
			b.Status, _ = value.(model.Status)
		case model.FieldRoomID:
			b.RoomID, _ = value.(string)
		case model.FieldCheckIn:
			b.CheckIn, _ = value.(time.Time)
		case model.FieldCheckOut:
			b.CheckOut, _ = value.(time.Time)
		case model.FieldTotalAmount:
			b.TotalAmount, _ = value.(float64)
		case model.FieldDiscount:
			b.Discount, _ = value.(float64)
		case model.FieldBookedAsAC:
			b.BookedAsAC, _ = value.(bool)
		case model.FieldRemarks:
			b.Remarks, _ = value.(string)
		}
	}
}

func seedBooking(status model.Status) model.Booking {
	return model.Booking{
		ID:          "b1",
		RoomID:      deluxe.ID,
		GuestID:     guest.ID,
		FirstName:   "Asha",
		LastName:    "Rao",
		Phone:       "9999999999",
		CheckIn:     date("2030-01-10"),
		CheckOut:    date("2030-01-12"),
		Status:      status,
		PaymentMode: model.PaymentModeUPI,
		TotalAmount: 4000,
		GSTIncluded: true,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:      deluxe.ID,
		FirstName:   "Asha",
		LastName:    "Rao",
		Phone:       "9999999999",
		CheckIn:     "2030-01-10",
		CheckOut:    "2030-01-12",
		PaymentMode: "upi",
		GSTIncluded: true,
	}
}

func TestBooking_Create(t *testing.T) {
	tests := []struct {
		name      string
		actor     actor.Actor
		req       func() dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantErr   error
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name:  "staff booking is confirmed and charged",
			actor: receptionist,
			req:   createRequest,
			setupMock: func(f *fixture) {
				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{Score: 10, Reason: "regular guest"}, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().RecordCharge(gomock.Any(), gomock.Any(), gomock.Any(), 4480.0).Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingCreated, gomock.Any(), auditModel.SeverityInfo)
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, string(model.StatusConfirmed), res.Status)
				assert.Equal(t, 4000.0, res.TotalAmount)
				assert.Equal(t, 2, res.Nights)
			},
		},
		{
			name:  "guest booking is pending and owned by the guest",
			actor: guest,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.GuestID = "someone-else"
				req.BookedAsAC = true

				return req
			},
			setupMock: func(f *fixture) {
				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{Score: 20}, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
					assert.Equal(t, guest.ID, b.GuestID)
					assert.Equal(t, model.StatusPending, b.Status)

					return nil
				})
				f.ledger.EXPECT().RecordCharge(gomock.Any(), gomock.Any(), gomock.Any(), 5600.0).Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionBookingCreated, gomock.Any(), auditModel.SeverityInfo)
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, string(model.StatusPending), res.Status)
				assert.Equal(t, 5000.0, res.TotalAmount)
			},
		},
		{
			name:  "scorer failure degrades to zero score",
			actor: receptionist,
			req:   createRequest,
			setupMock: func(f *fixture) {
				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{}, errors.New("deadline exceeded"))
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().RecordCharge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingCreated, gomock.Any(), auditModel.SeverityInfo)
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, 0, res.RiskScore)
				assert.Equal(t, riskModel.ReasonUnavailable, res.RiskReason)
			},
		},
		{
			name:  "high score raises fraud flag",
			actor: receptionist,
			req:   createRequest,
			setupMock: func(f *fixture) {
				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{Score: 92, Reason: "disposable email"}, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledger.EXPECT().RecordCharge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingCreated, gomock.Any(), auditModel.SeverityInfo)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionFraudFlag, gomock.Any(), auditModel.SeverityWarning)
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, 92, res.RiskScore)
			},
		},
		{
			name:  "overlapping stay is refused",
			actor: receptionist,
			req:   createRequest,
			setupMock: func(f *fixture) {
				existing := seedBooking(model.StatusConfirmed)
				existing.CheckIn = date("2030-01-11")
				existing.CheckOut = date("2030-01-13")

				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{}, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{existing}, nil)
			},
			wantErr: failure.ErrRoomUnavailable,
		},
		{
			name:  "ac requested for room without ac",
			actor: receptionist,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.RoomID = standard.ID
				req.BookedAsAC = true

				return req
			},
			setupMock: func(*fixture) {},
			wantCode:  400,
		},
		{
			name:  "unknown room",
			actor: receptionist,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.RoomID = "missing"

				return req
			},
			setupMock: func(*fixture) {},
			wantCode:  404,
		},
		{
			name:  "check out before check in",
			actor: receptionist,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckOut = "2030-01-10"

				return req
			},
			setupMock: func(*fixture) {},
			wantCode:  400,
		},
		{
			name:  "insert failure",
			actor: receptionist,
			req:   createRequest,
			setupMock: func(f *fixture) {
				f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{}, nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.target.Create(context.Background(), tt.actor, tt.req())

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

func TestBooking_CreateConcurrentSameRoom(t *testing.T) {
	f := newFixture(t)
	s := newStore(f)

	f.scorer.EXPECT().Score(gomock.Any(), gomock.Any()).Return(riskModel.Result{}, nil).AnyTimes()
	f.ledger.EXPECT().RecordCharge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	const callers = 10

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		succeeded   int
		unavailable int
	)

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.target.Create(context.Background(), receptionist, createRequest())

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, failure.ErrRoomUnavailable):
				unavailable++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, unavailable)
	assert.Len(t, s.all(), 1)
}

func TestBooking_CheckOut(t *testing.T) {
	tests := []struct {
		name      string
		actor     actor.Actor
		status    model.Status
		paid      float64
		setupMock func(f *fixture)
		wantErr   error
		want      model.Status
	}{
		{
			name:   "balance outstanding blocks checkout",
			actor:  receptionist,
			status: model.StatusCheckedIn,
			paid:   5000,
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionRevenueLeakage, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrOutstandingBalance,
			want:    model.StatusCheckedIn,
		},
		{
			name:   "fully paid checks out and frees room for cleaning",
			actor:  receptionist,
			status: model.StatusCheckedIn,
			paid:   5600,
			setupMock: func(f *fixture) {
				f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, roomModel.StatusCleaning, fields[roomModel.FieldStatus])

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionCheckOut, gomock.Any(), auditModel.SeverityInfo)
			},
			want: model.StatusCheckedOut,
		},
		{
			name:   "balance within tolerance checks out",
			actor:  receptionist,
			status: model.StatusCheckedIn,
			paid:   5599.5,
			setupMock: func(f *fixture) {
				f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionCheckOut, gomock.Any(), auditModel.SeverityInfo)
			},
			want: model.StatusCheckedOut,
		},
		{
			name:   "guest cannot check out",
			actor:  guest,
			status: model.StatusCheckedIn,
			paid:   5600,
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			want:    model.StatusCheckedIn,
		},
		{
			name:      "booking not checked in",
			actor:     receptionist,
			status:    model.StatusConfirmed,
			paid:      5600,
			setupMock: func(*fixture) {},
			wantErr:   failure.ErrInvalidTransition,
			want:      model.StatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			booking := seedBooking(tt.status)
			booking.TotalAmount = 5000
			booking.PaidAmount = tt.paid

			s := newStore(f, booking)
			tt.setupMock(f)

			err := f.target.CheckOut(context.Background(), tt.actor, booking.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, s.get(booking.ID).Status)
		})
	}
}

func TestBooking_CheckIn(t *testing.T) {
	f := newFixture(t)
	s := newStore(f, seedBooking(model.StatusConfirmed))

	f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
		assert.Equal(t, roomModel.StatusOccupied, fields[roomModel.FieldStatus])
		assert.Equal(t, deluxe.ID, idOf(filter))

		return nil
	})
	f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionCheckIn, gomock.Any(), auditModel.SeverityInfo)

	require.NoError(t, f.target.CheckIn(context.Background(), receptionist, "b1"))
	assert.Equal(t, model.StatusCheckedIn, s.get("b1").Status)

	err := f.target.CheckIn(context.Background(), receptionist, "b1")
	assert.ErrorIs(t, err, failure.ErrInvalidTransition)
}

func TestBooking_Approve(t *testing.T) {
	tests := []struct {
		name      string
		actor     actor.Actor
		status    model.Status
		setupMock func(f *fixture)
		wantErr   error
		want      model.Status
	}{
		{
			name:   "receptionist approves pending booking",
			actor:  receptionist,
			status: model.StatusPending,
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionBookingApproved, gomock.Any(), auditModel.SeverityInfo)
			},
			want: model.StatusConfirmed,
		},
		{
			name:   "housekeeping is refused and audited",
			actor:  housekeeper,
			status: model.StatusPending,
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), housekeeper, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			want:    model.StatusPending,
		},
		{
			name:      "already confirmed",
			actor:     manager,
			status:    model.StatusConfirmed,
			setupMock: func(*fixture) {},
			wantErr:   failure.ErrInvalidTransition,
			want:      model.StatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := newStore(f, seedBooking(tt.status))
			tt.setupMock(f)

			err := f.target.Approve(context.Background(), tt.actor, "b1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, s.get("b1").Status)
		})
	}
}

func TestBooking_RejectAndCancel(t *testing.T) {
	tests := []struct {
		name      string
		actor     actor.Actor
		call      func(target service.Booking, act actor.Actor) error
		setupMock func(f *fixture)
		wantErr   error
		want      model.Status
	}{
		{
			name:  "manager rejects and charge is voided",
			actor: manager,
			call: func(target service.Booking, act actor.Actor) error {
				return target.Reject(context.Background(), act, "b1")
			},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 0.0).Return(-4480.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), manager, auditModel.ActionBookingRejected, gomock.Any(), auditModel.SeverityWarning)
			},
			want: model.StatusRejected,
		},
		{
			name:  "owner cancels own booking",
			actor: guest,
			call: func(target service.Booking, act actor.Actor) error {
				return target.Cancel(context.Background(), act, "b1")
			},
			setupMock: func(f *fixture) {
				f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 0.0).Return(-4480.0, nil)
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionBookingCancelled, gomock.Any(), auditModel.SeverityWarning)
			},
			want: model.StatusCancelled,
		},
		{
			name:  "other guest cannot cancel",
			actor: otherGuest,
			call: func(target service.Booking, act actor.Actor) error {
				return target.Cancel(context.Background(), act, "b1")
			},
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), otherGuest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			want:    model.StatusPending,
		},
		{
			name:  "guest cannot reject",
			actor: guest,
			call: func(target service.Booking, act actor.Actor) error {
				return target.Reject(context.Background(), act, "b1")
			},
			setupMock: func(f *fixture) {
				f.audit.EXPECT().Record(gomock.Any(), guest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
			want:    model.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := newStore(f, seedBooking(model.StatusPending))
			tt.setupMock(f)

			err := tt.call(f.target, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.want, s.get("b1").Status)

				return
			}

			require.NoError(t, err)

			got := s.get("b1")
			assert.Equal(t, tt.want, got.Status)
			assert.Zero(t, got.TotalAmount)
			assert.Zero(t, got.Invoice().GrandTotal)
		})
	}
}

func TestBooking_ExpirePending(t *testing.T) {
	f := newFixture(t)

	stale := seedBooking(model.StatusPending)
	raced := seedBooking(model.StatusConfirmed)
	raced.ID = "b2"

	s := newStore(f, stale, raced)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
		cutoff, _ := filter.Filters[1].(gDto.Filter).Value.(time.Time)
		assert.True(t, cutoff.Equal(date("2030-01-15")))

		// b2 was approved after the scan picked it up.
		pendingCopy := raced
		pendingCopy.Status = model.StatusPending

		return []model.Booking{stale, pendingCopy}, nil
	})
	f.ledger.EXPECT().Reconcile(gomock.Any(), gomock.Any(), "b1", 4480.0, 0.0).Return(-4480.0, nil)
	f.audit.EXPECT().Record(gomock.Any(), actor.System(), auditModel.ActionBookingExpired, gomock.Any(), auditModel.SeverityWarning)

	expired, err := f.target.ExpirePending(context.Background(), date("2030-01-15"))
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, model.StatusCancelled, s.get("b1").Status)
	assert.Equal(t, model.StatusConfirmed, s.get("b2").Status)
}

func TestBooking_CheckAvailability(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{seedBooking(model.StatusConfirmed)}, nil).Times(2)

	res, err := f.target.CheckAvailability(context.Background(), deluxe.ID, "2030-01-12", "2030-01-14")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = f.target.CheckAvailability(context.Background(), deluxe.ID, "2030-01-11", "2030-01-13")
	require.NoError(t, err)
	assert.False(t, res.Available)

	_, err = f.target.CheckAvailability(context.Background(), deluxe.ID, "2030-01-13", "2030-01-11")
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestBooking_Get(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "booking:get:b1", gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seedBooking(model.StatusConfirmed), nil)

	res, err := f.target.Get(context.Background(), receptionist, "b1")
	require.NoError(t, err)
	assert.Equal(t, 4480.0, res.GrandTotal)
	assert.Equal(t, 4480.0, res.BalanceDue)

	f.cache.EXPECT().Get(gomock.Any(), "booking:get:b9", gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err = f.target.Get(context.Background(), receptionist, "b9")
	assert.ErrorIs(t, err, failure.ErrBookingNotFound)
}

func TestBooking_GuestOwnership(t *testing.T) {
	cached := func(f *fixture) {
		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, _ := value.(*dto.BookingResponse)
			res.ID = "b1"
			res.GuestID = guest.ID

			return nil
		})
	}

	t.Run("guest reads own booking from cache", func(t *testing.T) {
		f := newFixture(t)
		cached(f)

		res, err := f.target.Get(context.Background(), guest, "b1")
		require.NoError(t, err)
		assert.Equal(t, "b1", res.ID)
	})

	t.Run("cached booking of another guest is refused and audited", func(t *testing.T) {
		f := newFixture(t)
		cached(f)
		f.audit.EXPECT().Record(gomock.Any(), otherGuest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)

		res, err := f.target.Get(context.Background(), otherGuest, "b1")
		assert.ErrorIs(t, err, failure.ErrPermissionDenied)
		assert.Empty(t, res.ID)
	})

	t.Run("invoice of another guest is refused and audited", func(t *testing.T) {
		f := newFixture(t)
		newStore(f, seedBooking(model.StatusConfirmed))
		f.audit.EXPECT().Record(gomock.Any(), otherGuest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)

		_, err := f.target.Invoice(context.Background(), otherGuest, "b1")
		assert.ErrorIs(t, err, failure.ErrPermissionDenied)
	})

	t.Run("guest reads own invoice", func(t *testing.T) {
		f := newFixture(t)
		newStore(f, seedBooking(model.StatusConfirmed))

		inv, err := f.target.Invoice(context.Background(), guest, "b1")
		require.NoError(t, err)
		assert.Equal(t, 4480.0, inv.GrandTotal)
	})

	t.Run("statement of another guest is refused and audited", func(t *testing.T) {
		f := newFixture(t)
		newStore(f, seedBooking(model.StatusConfirmed))
		f.audit.EXPECT().Record(gomock.Any(), otherGuest, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)

		_, err := f.target.Statement(context.Background(), otherGuest, "b1")
		assert.ErrorIs(t, err, failure.ErrPermissionDenied)
	})

	t.Run("staff read statements without an ownership lookup", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.EXPECT().Statement(gomock.Any(), "b1").Return(ledgerDto.StatementResponse{BookingID: "b1", Balance: 4480}, nil)

		res, err := f.target.Statement(context.Background(), manager, "b1")
		require.NoError(t, err)
		assert.Equal(t, 4480.0, res.Balance)
	})
}

func TestBooking_FindGuestByPhone(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{seedBooking(model.StatusCheckedOut)}, nil)

	res, err := f.target.FindGuestByPhone(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Visits)
	assert.Equal(t, "Asha", res.FirstName)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

	_, err = f.target.FindGuestByPhone(context.Background(), "0000")
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestBooking_Risky(t *testing.T) {
	f := newFixture(t)

	high := seedBooking(model.StatusPending)
	high.RiskScore = 95

	medium := seedBooking(model.StatusConfirmed)
	medium.ID = "b2"
	medium.RiskScore = 60

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{high, medium}, nil)

	res, err := f.target.Risky(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, res.Bookings, 2)
	assert.True(t, res.Bookings[0].Critical)
	assert.False(t, res.Bookings[1].Critical)
}
