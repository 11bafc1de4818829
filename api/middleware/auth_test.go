package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelikelen/dashboard-backend/pkg/auth"
	"github.com/lelikelen/dashboard-backend/pkg/config"
)

func signToken(t *testing.T, secret string, userID uuid.UUID, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AccessTokenClaims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func captureUserID(capture *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalAuthValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}
	userID := uuid.New()

	var got string
	handler := OptionalAuth(cfg, nil)(captureUserID(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.Secret, userID, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), got)
}

func TestOptionalAuthMissingHeaderIsAnonymous(t *testing.T) {
	var got string
	handler := OptionalAuth(config.JWTConfig{Secret: "test-secret"}, nil)(captureUserID(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}

func TestOptionalAuthInvalidTokenIsAnonymous(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}
	userID := uuid.New()

	var got string
	handler := OptionalAuth(cfg, nil)(captureUserID(&got))

	cases := map[string]string{
		"wrong secret": "Bearer " + signToken(t, "other-secret", userID, time.Now().Add(time.Hour)),
		"expired":      "Bearer " + signToken(t, cfg.Secret, userID, time.Now().Add(-time.Hour)),
		"garbage":      "Bearer not-a-jwt",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			got = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, got)
		})
	}
}

func TestOptionalAuthNoSecretConfigured(t *testing.T) {
	var got string
	handler := OptionalAuth(config.JWTConfig{}, nil)(captureUserID(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "whatever", uuid.New(), time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}
