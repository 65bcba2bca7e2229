package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	bookingMocks "hotel/internal/domains/booking/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	deletionMocks "hotel/internal/domains/deletion/mocks"
	ledgerMocks "hotel/internal/domains/ledger/mocks"
	ledgerDto "hotel/internal/domains/ledger/model/dto"
	"hotel/internal/domains/metrics/model/dto"
	"hotel/internal/domains/metrics/service"
	roomMocks "hotel/internal/domains/room/mocks"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

type fixture struct {
	bookings  *bookingMocks.MockBooking
	rooms     *roomMocks.MockRoom
	deletions *deletionMocks.MockDeletion
	ledger    *ledgerMocks.MockLedgerService
	cache     *cacheMocks.MockRedisCache
	target    service.Metrics
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		bookings:  bookingMocks.NewMockBooking(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		deletions: deletionMocks.NewMockDeletion(ctrl),
		ledger:    ledgerMocks.NewMockLedgerService(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.target = service.New(f.bookings, f.rooms, f.deletions, f.ledger, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestMetrics_Metrics(t *testing.T) {
	f := newFixture(t)

	checkIn, _ := timezone.ParseDate("2030-03-03")
	checkOut, _ := timezone.ParseDate("2030-03-05")

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{
		{ID: "b1", CheckIn: checkIn, CheckOut: checkOut, TotalAmount: 4000, Status: bookingModel.StatusConfirmed},
	}, nil)

	// check-ins, check-outs, occupied, arrived confirmed, pending approvals
	gomock.InOrder(
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil),
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil),
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil),
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil),
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil),
	)
	f.deletions.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.ledger.EXPECT().Summary(gomock.Any()).Return(ledgerDto.SummaryResponse{Outstanding: 12500}, nil)

	res, err := f.target.Metrics(context.Background(), "2030-03-01", "2030-03-03")
	require.NoError(t, err)

	assert.Equal(t, 2000.0, res.TotalRevenue)
	assert.Equal(t, 1, res.OccupiedRoomNights)
	assert.Equal(t, 3, res.AvailableRoomNights)
	assert.Equal(t, 33.33, res.OccupancyRate)
	assert.Equal(t, 2000.0, res.ADR)
	assert.Equal(t, 666.67, res.RevPAR)

	assert.Equal(t, 2, res.CheckInsToday)
	assert.Equal(t, 1, res.CheckOutsToday)
	assert.Equal(t, 4, res.OccupiedNow)
	assert.Equal(t, 7, res.ActiveBookings)
	assert.Equal(t, 5, res.PendingApprovals)
	assert.Equal(t, 1, res.PendingDeletionRequests)
	assert.Equal(t, 12500.0, res.OutstandingBalance)
}

func TestMetrics_MetricsFromCache(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, dst any) error {
		res, _ := dst.(*dto.MetricsResponse)
		res.TotalRevenue = 99

		return nil
	})

	res, err := f.target.Metrics(context.Background(), "2030-03-01", "2030-03-03")
	require.NoError(t, err)
	assert.Equal(t, 99.0, res.TotalRevenue)
}

func TestMetrics_MetricsInvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.target.Metrics(context.Background(), "2030-03-03", "2030-03-01")
	assert.Equal(t, 400, failure.GetCode(err))

	_, err = f.target.Metrics(context.Background(), "03/01/2030", "2030-03-01")
	assert.Equal(t, 400, failure.GetCode(err))
}

func TestMetrics_MetricsCountFailure(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("timeout"))

	_, err := f.target.Metrics(context.Background(), "2030-03-01", "2030-03-01")
	assert.Error(t, err)
}

func TestMetrics_PastOccupancy(t *testing.T) {
	f := newFixture(t)

	today := timezone.Today()

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
		return []bookingModel.Booking{
			// occupies the nights three and two days ago
			{CheckIn: today.AddDate(0, 0, -3), CheckOut: today.AddDate(0, 0, -1), Status: bookingModel.StatusCheckedOut},
			// occupies last night and tonight
			{CheckIn: today.AddDate(0, 0, -1), CheckOut: today.AddDate(0, 0, 1), Status: bookingModel.StatusCheckedIn},
		}, nil
	})

	res, err := f.target.PastOccupancy(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, res.DaysAnalyzed)
	require.Len(t, res.Daily, 3)
	assert.Equal(t, timezone.FormatDate(today.AddDate(0, 0, -3)), res.Daily[0].Date)

	for _, day := range res.Daily {
		assert.Equal(t, 1, day.Occupied)
		assert.Equal(t, 50.0, day.Occupancy)
	}

	assert.Equal(t, 50.0, res.AverageOccupancy)
	assert.False(t, res.Low)
}

func TestMetrics_PastOccupancyWithoutRooms(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

	res, err := f.target.PastOccupancy(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, res.DaysAnalyzed)
	assert.Zero(t, res.AverageOccupancy)

	_, err = f.target.PastOccupancy(context.Background(), 1000)
	assert.Equal(t, 400, failure.GetCode(err))
}
