package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sarana/config"
	otelMocks "sarana/infras/otel/mocks"
	"sarana/internal/domains/user/mocks"
	"sarana/internal/domains/user/model"
	"sarana/internal/domains/user/model/dto"
	"sarana/internal/domains/user/service"
	"sarana/permissions"
	cacheMocks "sarana/shared/cache/mocks"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/timezone"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo  *mocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:  mocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, timezone.NewFixedClock(now), &config.Config{}, f.cache, otelMocks.NewOtel())

	return f
}

func userAdmin() context.Context {
	return permissions.WithPrincipal(context.Background(), permissions.Principal{
		UserID:     "admin-1",
		Role:       constant.RoleManagement,
		Privileges: []string{constant.ModuleUserManagement},
	})
}

func roomManager() context.Context {
	return permissions.WithPrincipal(context.Background(), permissions.Principal{
		UserID:     "mgr-1",
		Role:       constant.RoleManagement,
		Privileges: []string{constant.ModuleRoom},
	})
}

func strPtr(s string) *string { return &s }

func TestAccount_Create(t *testing.T) {
	valid := dto.CreateUserRequest{
		Email:      "budi@gereja.id",
		Password:   "rahasia123",
		FullName:   "Budi",
		Role:       constant.RoleMember,
		Privileges: []string{constant.ModuleRoom},
	}

	tests := []struct {
		name    string
		ctx     context.Context
		req     dto.CreateUserRequest
		setup   func(f *fixture)
		kindErr failure.Kind
	}{
		{
			name: "creates member",
			ctx:  userAdmin(),
			req:  valid,
			setup: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u model.User) error {
					assert.Equal(t, pq.StringArray{constant.ModuleRoom}, u.Privileges)
					assert.NotEqual(t, valid.Password, u.Password)
					assert.Equal(t, "admin-1", u.CreatedBy)

					return nil
				})
			},
		},
		{
			name:    "manager without user management",
			ctx:     roomManager(),
			req:     valid,
			kindErr: failure.KindAuthorization,
		},
		{
			name: "weak password",
			ctx:  userAdmin(),
			req: func() dto.CreateUserRequest {
				r := valid
				r.Password = "abcdefgh"

				return r
			}(),
			kindErr: failure.KindValidation,
		},
		{
			name: "unknown privilege",
			ctx:  userAdmin(),
			req: func() dto.CreateUserRequest {
				r := valid
				r.Privileges = []string{"Dapur"}

				return r
			}(),
			kindErr: failure.KindValidation,
		},
		{
			name: "duplicate email",
			ctx:  userAdmin(),
			req:  valid,
			setup: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			kindErr: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.setup != nil {
				tt.setup(f)
			}

			res, err := f.svc.Create(tt.ctx, tt.req)

			if tt.kindErr != "" {
				assert.Equal(t, tt.kindErr, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Email, res.Email)
			assert.False(t, res.AllModules)
		})
	}
}

func TestAccount_GetSelfOrManager(t *testing.T) {
	user := model.User{ID: "mgr-1", Email: "mgr@gereja.id", Role: constant.RoleManagement, Active: true}

	t.Run("self", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		res, err := f.svc.Get(roomManager(), "mgr-1")

		require.NoError(t, err)
		assert.Equal(t, "mgr@gereja.id", res.Email)
	})

	t.Run("other user without user management", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(roomManager(), "someone-else")

		assert.True(t, failure.Is(err, failure.KindAuthorization))
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(userAdmin(), "ghost")

		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestAccount_GetAllWhitelistsSort(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.User, error) {
			assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)

			return []model.User{{ID: "u-1"}}, nil
		})

	res, err := f.svc.GetAll(userAdmin(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Users, 1)
}

func TestAccount_UpdateDropsCachedPrincipal(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1"}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, constant.RoleManagement, fields[model.FieldRole])
			assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

			return nil
		})
	f.cache.EXPECT().Delete(gomock.Any(), "user:principal:u-1").Return(nil)
	f.cache.EXPECT().Delete(gomock.Any(), "user:get:u-1").Return(nil)

	err := f.svc.Update(userAdmin(), "u-1", dto.UpdateUserRequest{Role: strPtr(constant.RoleManagement)})

	require.NoError(t, err)
}

func TestAccount_UpdateRejectsEmpty(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Update(userAdmin(), "u-1", dto.UpdateUserRequest{})

	assert.True(t, failure.Is(err, failure.KindBadRequest))
}

func TestAccount_DeleteSelf(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(userAdmin(), "admin-1")

	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestAccount_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1"}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, f.svc.Delete(userAdmin(), "u-1"))
}

func TestAccount_DeleteWithBookingHistory(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1"}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("failed to delete data (user): %w", &pq.Error{Code: constant.PqErrorCodeFkViolation}))

	err := f.svc.Delete(userAdmin(), "u-1")

	assert.True(t, failure.Is(err, failure.KindConflict))
}

func TestAccount_Principal(t *testing.T) {
	t.Run("resolves privileges", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "user:principal:u-1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{
			ID: "u-1", Role: constant.RoleManagement, Privileges: pq.StringArray{constant.ModuleVehicle}, Active: true,
		}, nil)

		p, err := f.svc.Principal(context.Background(), "u-1")

		require.NoError(t, err)
		assert.Equal(t, constant.RoleManagement, p.Role)
		assert.True(t, p.HasModule(constant.ModuleVehicle))
		assert.False(t, p.HasModule(constant.ModuleRoom))
	})

	t.Run("inactive user", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Active: false}, nil)

		_, err := f.svc.Principal(context.Background(), "u-1")

		assert.True(t, failure.Is(err, failure.KindUnauthorized))
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "user:principal:u-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, v any) error {
				*v.(*permissions.Principal) = permissions.Principal{UserID: "u-1", Role: constant.RoleMember}

				return nil
			})

		p, err := f.svc.Principal(context.Background(), "u-1")

		require.NoError(t, err)
		assert.Equal(t, constant.RoleMember, p.Role)
	})
}
