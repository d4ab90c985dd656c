package password_test

import (
	"strings"
	"testing"

	"sarana/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid password", input: "validPassword123"},
		{name: "special characters", input: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", input: "kataSandi123é"},
		{name: "empty password", input: "", wantErr: password.ErrEmptyPassword},
		{name: "longer than bcrypt allows", input: strings.Repeat("a", 100), wantErr: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))
			assert.NoError(t, password.Verify(tt.input, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("StrongPassw0rd!")
	require.NoError(t, err)

	assert.NoError(t, password.Verify("StrongPassw0rd!", hash))
	assert.ErrorIs(t, password.Verify("wrong", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("StrongPassw0rd!", ""), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("StrongPassw0rd!", "not-a-hash"), password.ErrVerifyingPassword)
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "123", wantErr: true},
		{input: "abcdefgh", wantErr: true},
		{input: "12345678", wantErr: true},
		{input: "StrongPassw0rd!"},
		{input: "gereja2025"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := password.CheckStrength(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, password.ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
