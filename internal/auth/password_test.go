package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

func TestHash_ValidPassword(t *testing.T) {
	h := newTestHasher()
	tests := []struct {
		name     string
		password string
	}{
		{"8 characters", "password"},
		{"long password", "this-is-a-very-long-password-123!@#"},
		{"with special chars", "p@ssw0rd!"},
		{"with unicode", "パスワード12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, len(hash) >= 60, "bcrypt hash should be at least 60 chars")
		})
	}
}

func TestHash_ShortPassword(t *testing.T) {
	h := newTestHasher()
	for _, pw := range []string{"1234567", "", "a", "       "} {
		hash, err := h.Hash(pw)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, hash)
	}
}

func TestHash_DifferentHashesForSamePassword(t *testing.T) {
	h := newTestHasher()

	hash1, err := h.Hash("testpassword123")
	require.NoError(t, err)
	hash2, err := h.Hash("testpassword123")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestCheck(t *testing.T) {
	h := newTestHasher()
	hash, err := h.Hash("Password123")
	require.NoError(t, err)

	assert.True(t, h.Check("Password123", hash))
	assert.False(t, h.Check("password123", hash))
	assert.False(t, h.Check("", hash))
	assert.False(t, h.Check("Password123", "invalid-hash"))
	assert.False(t, h.Check("Password123", ""))
}

func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
