package middleware

import (
	"net/http"
	"strings"

	"github.com/lelikelen/dashboard-backend/pkg/auth"
	"github.com/lelikelen/dashboard-backend/pkg/config"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// OptionalAuth seeds the request context with the caller identity when a
// valid bearer token is present. Missing or invalid credentials leave the
// request anonymous rather than rejecting it; the dashboard is readable
// without an account.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || cfg.Secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Debug(r.Context(), "bearer token rejected, continuing anonymous")
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims.ResolveUserID()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
