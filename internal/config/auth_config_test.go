package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret-key")
		t.Setenv("JWT_EXPIRATION_HOURS", "")
		t.Setenv("JWT_ISSUER", "")

		cfg, err := NewJWTConfig()
		require.NoError(t, err)
		assert.Equal(t, "test-secret-key", cfg.Secret)
		assert.Equal(t, 24, cfg.ExpirationHours)
		assert.Equal(t, "healthtrack", cfg.Issuer)
	})

	t.Run("custom expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("JWT_EXPIRATION_HOURS", "72")

		cfg, err := NewJWTConfig()
		require.NoError(t, err)
		assert.Equal(t, 72, cfg.ExpirationHours)
	})

	tests := []struct {
		name       string
		secret     string
		expiration string
		wantErr    string
	}{
		{"missing secret", "", "", "JWT_SECRET is required"},
		{"non-numeric expiration", "s", "soon", "invalid JWT_EXPIRATION_HOURS"},
		{"zero expiration", "s", "0", "at least 1 hour"},
		{"negative expiration", "s", "-5", "at least 1 hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		wantCost int
		wantErr  string
	}{
		{"default", "", 12, ""},
		{"minimum", "10", 10, ""},
		{"maximum", "14", 14, ""},
		{"too low", "9", 0, "out of range"},
		{"too high", "15", 0, "out of range"},
		{"not a number", "high", 0, "invalid BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", "pep")

			cfg, err := NewPasswordConfig()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, "pep", cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: MinBcryptCost}

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))

	again, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts differ per hash")
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: MinBcryptCost, Pepper: "pepper-v1"}
	hash, err := peppered.HashPassword("secret")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret", hash))

	plain := &PasswordConfig{BcryptCost: MinBcryptCost}
	assert.False(t, plain.VerifyPassword("secret", hash))

	rotated := &PasswordConfig{BcryptCost: MinBcryptCost, Pepper: "pepper-v2"}
	assert.False(t, rotated.VerifyPassword("secret", hash))
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: MinBcryptCost}
	_, err := cfg.HashPassword(strings.Repeat("a", 80))
	assert.Error(t, err)
}
