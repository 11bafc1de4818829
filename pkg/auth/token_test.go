package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelikelen/dashboard-backend/pkg/config"
)

func mintToken(t *testing.T, secret string, claims AccessTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseAccessTokenRoundTrip(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}
	userID := uuid.New()

	signed := mintToken(t, cfg.Secret, AccessTokenClaims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)

	resolved, ok := claims.ResolveUserID()
	require.True(t, ok)
	assert.Equal(t, userID, resolved)
}

func TestParseAccessTokenSubjectFallback(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}
	userID := uuid.New()

	signed := mintToken(t, cfg.Secret, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)

	resolved, ok := claims.ResolveUserID()
	require.True(t, ok)
	assert.Equal(t, userID, resolved)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}

	signed := mintToken(t, cfg.Secret, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := ParseAccessToken(cfg, signed)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed := mintToken(t, "other-secret", AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := ParseAccessToken(config.JWTConfig{Secret: "test-secret"}, signed)
	assert.Error(t, err)
}

func TestParseAccessTokenRequiresSecret(t *testing.T) {
	_, err := ParseAccessToken(config.JWTConfig{}, "whatever")
	assert.Error(t, err)
}

func TestResolveUserIDMissing(t *testing.T) {
	claims := &AccessTokenClaims{}
	_, ok := claims.ResolveUserID()
	assert.False(t, ok)
}
