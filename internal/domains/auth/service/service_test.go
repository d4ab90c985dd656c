package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sarana/config"
	"sarana/infras/jwt"
	jwtMocks "sarana/infras/jwt/mocks"
	otelMocks "sarana/infras/otel/mocks"
	"sarana/internal/domains/auth/model/dto"
	"sarana/internal/domains/auth/service"
	userMocks "sarana/internal/domains/user/mocks"
	userModel "sarana/internal/domains/user/model"
	"sarana/permissions"
	"sarana/shared/constant"
	"sarana/shared/failure"
	gModel "sarana/shared/model"
	"sarana/shared/password"
	"sarana/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	users *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
	svc   service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		users: userMocks.NewMockUser(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.users, timezone.NewFixedClock(now), &config.Config{}, otelMocks.NewOtel(), f.jwt)

	return f
}

func member(t *testing.T, secret string) userModel.User {
	t.Helper()

	hashed, err := password.Hash(secret)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Email:    "budi@gereja.id",
		Password: hashed,
		FullName: "Budi",
		Role:     constant.RoleMember,
		Active:   true,
		Metadata: gModel.Metadata{CreatedAt: now, ModifiedAt: now, CreatedBy: "system", ModifiedBy: "system"},
	}
}

var pair = &jwt.TokenPair{
	AccessToken:  "access-token",
	RefreshToken: "refresh-token",
	TokenType:    "Bearer",
	ExpiresIn:    900,
}

func TestAuth_Login(t *testing.T) {
	t.Run("issues tokens and records last login", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "rahasia123")

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, constant.RoleMember).Return(pair, nil)
		f.users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, now, fields[userModel.FieldLastLogin])

				return nil
			})

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "rahasia123"})
		require.NoError(t, err)

		assert.Equal(t, "access-token", res.AccessToken)
		assert.Equal(t, "refresh-token", res.RefreshToken)
		assert.Equal(t, user.ID, res.User.ID)
		require.NotNil(t, res.User.LastLogin)
		assert.Equal(t, now.Format(time.RFC3339), *res.User.LastLogin)
	})

	t.Run("last login failure does not block login", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "rahasia123")

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Role).Return(pair, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "rahasia123"})
		assert.NoError(t, err)
	})

	tests := []struct {
		name  string
		req   dto.LoginRequest
		user  func(u userModel.User) userModel.User
		kind  failure.Kind
		fetch bool
	}{
		{
			name: "malformed email",
			req:  dto.LoginRequest{Email: "budi", Password: "rahasia123"},
			kind: failure.KindValidation,
		},
		{
			name:  "unknown email",
			req:   dto.LoginRequest{Email: "nobody@gereja.id", Password: "rahasia123"},
			user:  func(userModel.User) userModel.User { return userModel.User{} },
			kind:  failure.KindUnauthorized,
			fetch: true,
		},
		{
			name:  "wrong password",
			req:   dto.LoginRequest{Email: "budi@gereja.id", Password: "salah12345"},
			user:  func(u userModel.User) userModel.User { return u },
			kind:  failure.KindUnauthorized,
			fetch: true,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "budi@gereja.id", Password: "rahasia123"},
			user: func(u userModel.User) userModel.User {
				u.Active = false

				return u
			},
			kind:  failure.KindUnauthorized,
			fetch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.fetch {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.user(member(t, "rahasia123")), nil)
			}

			_, err := f.svc.Login(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.GetKind(err))
		})
	}

	t.Run("token generation error", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "rahasia123")

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no secret"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "rahasia123"})
		require.Error(t, err)
		assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	})
}

func TestAuth_RefreshToken(t *testing.T) {
	claims := &jwt.Claims{UserID: "user-1", Email: "budi@gereja.id", Role: constant.RoleMember, Type: jwt.RefreshToken}

	t.Run("reissues with the current role", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "rahasia123")
		user.Role = constant.RoleManagement

		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh-token", jwt.RefreshToken).Return(claims, nil)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, constant.RoleManagement).Return(pair, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{})
		assert.True(t, failure.Is(err, failure.KindValidation))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindUnauthorized))
		assert.Equal(t, "refresh token has expired", err.Error())
	})

	t.Run("deactivated user", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "rahasia123")
		user.Active = false

		f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), jwt.RefreshToken).Return(claims, nil)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
		assert.True(t, failure.Is(err, failure.KindUnauthorized))
	})
}

func TestAuth_ChangePassword(t *testing.T) {
	signedIn := permissions.WithPrincipal(context.Background(), permissions.Principal{
		UserID: "user-1",
		Role:   constant.RoleMember,
	})

	t.Run("stores a new hash", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(t, "rahasia123"), nil)
		f.users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				hashed, ok := fields[userModel.FieldPassword].(string)
				require.True(t, ok)
				assert.NoError(t, password.Verify("baru45678", hashed))
				assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := f.svc.ChangePassword(signedIn, dto.ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "baru45678"})
		assert.NoError(t, err)
	})

	tests := []struct {
		name  string
		ctx   context.Context
		req   dto.ChangePasswordRequest
		fetch bool
		kind  failure.Kind
		field string
	}{
		{
			name: "anonymous",
			ctx:  context.Background(),
			req:  dto.ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "baru45678"},
			kind: failure.KindUnauthorized,
		},
		{
			name:  "weak new password",
			ctx:   signedIn,
			req:   dto.ChangePasswordRequest{CurrentPassword: "rahasia123", NewPassword: "abcdefghij"},
			kind:  failure.KindValidation,
			field: "new_password",
		},
		{
			name:  "wrong current password",
			ctx:   signedIn,
			req:   dto.ChangePasswordRequest{CurrentPassword: "salah12345", NewPassword: "baru45678"},
			fetch: true,
			kind:  failure.KindValidation,
			field: "current_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.fetch {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(t, "rahasia123"), nil)
			}

			err := f.svc.ChangePassword(tt.ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.GetKind(err))

			if tt.field != "" {
				var f *failure.Failure
				require.ErrorAs(t, err, &f)
				assert.Equal(t, tt.field, f.Field)
			}
		})
	}
}
