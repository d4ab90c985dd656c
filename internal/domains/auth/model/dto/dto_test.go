package dto_test

import (
	"encoding/json"
	"testing"

	"sarana/infras/jwt"
	"sarana/internal/domains/auth/model/dto"
	userDto "sarana/internal/domains/user/model/dto"
	"sarana/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokens(t *testing.T) {
	tokens := dto.NewTokens(&jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	})

	assert.Equal(t, dto.Tokens{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}, tokens)
}

func TestLoginResponse_FlattensTokens(t *testing.T) {
	res := dto.LoginResponse{
		Tokens: dto.Tokens{AccessToken: "access", TokenType: "Bearer", ExpiresIn: 900},
		User:   userDto.UserResponse{ID: "u-1", Email: "maria@gereja.id"},
	}

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "access", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.InDelta(t, 900, body["expires_in"], 0)
	assert.Contains(t, body, "user")
	assert.NotContains(t, body, "Tokens")
}

func TestChangePasswordRequest_Validation(t *testing.T) {
	same := dto.ChangePasswordRequest{CurrentPassword: "lama12345", NewPassword: "lama12345"}
	assert.Error(t, validator.ValidateStruct(&same))

	short := dto.ChangePasswordRequest{CurrentPassword: "lama12345", NewPassword: "baru"}
	assert.Error(t, validator.ValidateStruct(&short))

	ok := dto.ChangePasswordRequest{CurrentPassword: "lama12345", NewPassword: "Baru#2026x"}
	assert.NoError(t, validator.ValidateStruct(&ok))
}
