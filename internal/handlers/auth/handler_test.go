package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "sarana/infras/otel/mocks"
	"sarana/internal/domains/auth/mocks"
	"sarana/internal/domains/auth/model/dto"
	userMocks "sarana/internal/domains/user/mocks"
	userDto "sarana/internal/domains/user/model/dto"
	"sarana/internal/handlers/auth"
	"sarana/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	service  *mocks.MockAuth
	accounts *userMocks.MockAccount
	router   chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		service:  mocks.NewMockAuth(ctrl),
		accounts: userMocks.NewMockAccount(ctrl),
	}

	handler := auth.New(f.service, f.accounts, otelMocks.NewOtel())

	r := chi.NewRouter()
	r.Route("/v1", handler.Router)
	f.router = r

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().
			Login(gomock.Any(), dto.LoginRequest{Email: "maria@gereja.id", Password: "rahasia"}).
			Return(dto.LoginResponse{Tokens: dto.Tokens{AccessToken: "access", TokenType: "Bearer"}}, nil)

		rec := f.do(http.MethodPost, "/v1/auth/login", `{"email":"maria@gereja.id","password":"rahasia"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"access"`)
	})

	t.Run("malformed email never reaches the service", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/v1/auth/login", `{"email":"maria","password":"rahasia"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := newFixture(t)

		f.service.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))

		rec := f.do(http.MethodPost, "/v1/auth/login", `{"email":"maria@gereja.id","password":"salah"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().
		RefreshToken(gomock.Any(), dto.RefreshTokenRequest{RefreshToken: "refresh"}).
		Return(dto.RefreshTokenResponse{Tokens: dto.Tokens{AccessToken: "next"}}, nil)

	rec := f.do(http.MethodPost, "/v1/auth/refresh-token", `{"refresh_token":"refresh"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"next"`)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().
		ChangePassword(gomock.Any(), dto.ChangePasswordRequest{CurrentPassword: "lama12345", NewPassword: "Baru#2026x"}).
		Return(nil)

	rec := f.do(http.MethodPost, "/v1/auth/change-password", `{"current_password":"lama12345","new_password":"Baru#2026x"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password changed successfully")
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().Me(gomock.Any()).DoAndReturn(func(context.Context) (userDto.UserResponse, error) {
		return userDto.UserResponse{ID: "u-1", Email: "maria@gereja.id"}, nil
	})

	rec := f.do(http.MethodGet, "/v1/me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"maria@gereja.id"`)
}
