package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	auditMocks "hotel/internal/domains/audit/mocks"
	auditModel "hotel/internal/domains/audit/model"
	roomMocks "hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	"hotel/shared/actor"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/failure"
)

var (
	admin        = actor.Actor{ID: "a1", Name: "Admin", Role: constant.RoleAdmin}
	receptionist = actor.Actor{ID: "r1", Name: "Desk", Role: constant.RoleReceptionist}
	housekeeper  = actor.Actor{ID: "h1", Name: "Keeper", Role: constant.RoleHousekeeping}
)

type fixture struct {
	repo   *roomMocks.MockRoom
	cache  *cacheMocks.MockRedisCache
	audit  *auditMocks.MockRecorder
	target service.Room
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		audit: auditMocks.NewMockRecorder(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.target = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.audit)

	return f
}

func TestRoom_Create(t *testing.T) {
	acRate := 2500.0

	tests := []struct {
		name      string
		actor     actor.Actor
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name:  "admin creates room",
			actor: admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, room model.Room) error {
					assert.Equal(t, model.StatusVacant, room.Status)
					assert.Equal(t, "Admin", room.CreatedBy)

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), admin, auditModel.ActionRoomConfigChanged, gomock.Any(), auditModel.SeverityInfo)
			},
		},
		{
			name:  "non admin is refused and audited",
			actor: receptionist,
			setupMock: func(f fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedConfigChange, gomock.Any(), auditModel.SeverityCritical)
			},
			wantErr: failure.ErrPermissionDenied,
		},
		{
			name:  "duplicate number",
			actor: admin,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.target.Create(context.Background(), tt.actor, dto.CreateRoomRequest{
				Number: "101", Type: "deluxe", BaseRate: 2000, ACRate: &acRate,
			})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.name == "duplicate number":
				assert.Equal(t, 409, failure.GetCode(err))
			default:
				require.NoError(t, err)
				assert.True(t, res.HasAC)
				assert.Equal(t, []string{}, res.Amenities)
			}
		})
	}
}

func TestRoom_Get(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "room:get:r1", gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", Number: "101", BaseRate: 1500}, nil)

	res, err := f.target.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "101", res.Number)
	assert.False(t, res.HasAC)

	f.cache.EXPECT().Get(gomock.Any(), "room:get:r2", gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	_, err = f.target.Get(context.Background(), "r2")
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestRoom_Update(t *testing.T) {
	t.Run("removes ac and replaces amenities", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", Number: "101"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				acRate, ok := fields[model.FieldACRate]
				assert.True(t, ok)
				assert.Nil(t, acRate)
				assert.Equal(t, pq.StringArray{"tv"}, fields["amenities"])
				assert.Equal(t, "Admin", fields[constant.FieldModifiedBy])

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), admin, auditModel.ActionRoomConfigChanged, gomock.Any(), auditModel.SeverityInfo)

		err := f.target.Update(context.Background(), admin, dto.UpdateRoomRequest{RemoveAC: true, Amenities: []string{"tv"}}, "r1")
		require.NoError(t, err)
	})

	t.Run("receptionist refused", func(t *testing.T) {
		f := newFixture(t)

		f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedConfigChange, gomock.Any(), auditModel.SeverityCritical)

		err := f.target.Update(context.Background(), receptionist, dto.UpdateRoomRequest{Number: "102"}, "r1")
		assert.ErrorIs(t, err, failure.ErrPermissionDenied)
	})
}

func TestRoom_UpdateStatus(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, "cleaning", fields[model.FieldStatus])

			return nil
		})

	err := f.target.UpdateStatus(context.Background(), housekeeper, dto.UpdateRoomStatusRequest{Status: "cleaning"}, "r1")
	require.NoError(t, err)
}

func TestRoom_Delete(t *testing.T) {
	t.Run("room with bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		err := f.target.Delete(context.Background(), admin, "r1")
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.target.Delete(context.Background(), admin, "r1")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoom_NightlyRate(t *testing.T) {
	acRate := 3000.0
	room := model.Room{BaseRate: 2000, ACRate: &acRate}

	assert.Equal(t, 3000.0, room.NightlyRate(true))
	assert.Equal(t, 2000.0, room.NightlyRate(false))
	assert.Equal(t, 2000.0, model.Room{BaseRate: 2000}.NightlyRate(true))
}
