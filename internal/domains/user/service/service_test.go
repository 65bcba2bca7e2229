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
	userMocks "hotel/internal/domains/user/mocks"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/service"
	"hotel/shared/actor"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"
)

var (
	admin        = actor.Actor{ID: "a1", Name: "Admin", Role: constant.RoleAdmin}
	receptionist = actor.Actor{ID: "r1", Name: "Desk", Role: constant.RoleReceptionist}
)

type fixture struct {
	repo   *userMocks.MockUser
	audit  *auditMocks.MockRecorder
	cache  *cacheMocks.MockRedisCache
	target service.User
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		audit: auditMocks.NewMockRecorder(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.target = service.New(f.repo, f.audit, cfg, f.cache, mocks.NewOtel())

	return f
}

func boolPtr(b bool) *bool {
	return &b
}

func TestUser_Create(t *testing.T) {
	req := dto.CreateUserRequest{Email: "HK@hotel.test", Password: "password123", Role: constant.RoleHousekeeping}

	tests := []struct {
		name     string
		act      actor.Actor
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "admin creates staff",
			act:  admin,
			setup: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user model.User) error {
					assert.Equal(t, "hk@hotel.test", user.Email)
					assert.Equal(t, constant.RoleHousekeeping, user.Role)
					assert.Equal(t, "Admin", user.CreatedBy)
					assert.NoError(t, password.Verify("password123", user.Password))

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), admin, auditModel.ActionUserAccessChanged, gomock.Any(), auditModel.SeverityInfo)
			},
		},
		{
			name: "non admin is refused and audited",
			act:  receptionist,
			setup: func(f fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantCode: 403,
		},
		{
			name: "duplicate email",
			act:  admin,
			setup: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.target.Create(context.Background(), tt.act, req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, constant.RoleHousekeeping, res.Role)
			assert.True(t, res.Active)
		})
	}
}

func TestUser_UpdateAccess(t *testing.T) {
	guest := model.User{ID: "u1", Email: "guest@hotel.test", Role: constant.RoleGuest, Active: true}

	tests := []struct {
		name     string
		act      actor.Actor
		req      dto.UpdateAccessRequest
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "admin disables guest",
			act:  admin,
			req:  dto.UpdateAccessRequest{Active: boolPtr(false)},
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, false, fields[model.FieldActive])
					assert.Equal(t, "Admin", fields[constant.FieldModifiedBy])

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), admin, auditModel.ActionUserAccessChanged, gomock.Any(), auditModel.SeverityWarning)
			},
		},
		{
			name: "unchanged access is a no-op",
			act:  admin,
			req:  dto.UpdateAccessRequest{Active: boolPtr(true)},
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil)
			},
		},
		{
			name: "admin accounts are protected",
			act:  admin,
			req:  dto.UpdateAccessRequest{Active: boolPtr(false)},
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "a2", Role: constant.RoleAdmin, Active: true}, nil)
			},
			wantCode: 400,
		},
		{
			name: "non admin is refused",
			act:  receptionist,
			req:  dto.UpdateAccessRequest{Active: boolPtr(false)},
			setup: func(f fixture) {
				f.audit.EXPECT().Record(gomock.Any(), receptionist, auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)
			},
			wantCode: 403,
		},
		{
			name:     "missing flag",
			act:      admin,
			setup:    func(fixture) {},
			wantCode: 400,
		},
		{
			name: "unknown user",
			act:  admin,
			req:  dto.UpdateAccessRequest{Active: boolPtr(false)},
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "update failure",
			act:  admin,
			req:  dto.UpdateAccessRequest{Active: boolPtr(false)},
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.target.UpdateAccess(context.Background(), tt.act, tt.req, "u1")
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestUser_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.User{
		{ID: "u1", Email: "a@hotel.test", Role: constant.RoleStaff},
		{ID: "u2", Email: "b@hotel.test", Role: constant.RoleGuest},
	}, nil)

	res, err := f.target.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Len(t, res.Users, 2)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestUser_Get(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1", Email: "a@hotel.test", Role: constant.RoleStaff}, nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

	res, err := f.target.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, constant.RoleStaff, res.Role)
	assert.Nil(t, res.LastLogin)

	_, err = f.target.Get(context.Background(), "missing")
	assert.Equal(t, 404, failure.GetCode(err))
}
