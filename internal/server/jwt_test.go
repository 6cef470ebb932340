package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/health-tracker/internal/config"
)

func newTestJWTService(now time.Time) *JWTService {
	s := NewJWTService(&config.JWTConfig{Secret: "s3cret", ExpirationHours: 24, Issuer: "healthtrack"})
	s.now = func() time.Time { return now }
	return s
}

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)
	userID := uuid.New()

	token, err := s.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "healthtrack", claims.Issuer)

	getter, err := s.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, getter.GetUserID())
}

func TestJWTService_Rejects(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)
	token, err := s.GenerateToken(uuid.New())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestJWTService(now.Add(25 * time.Hour))
		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "different", ExpirationHours: 24, Issuer: "healthtrack"})
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "s3cret", ExpirationHours: 24, Issuer: "someone-else"})
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := s.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := s.ValidateToken("")
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.ValidateToken(unsigned)
		assert.Error(t, err)
	})
}
