package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware applying the dashboard's open origin policy. The
// frontend is served from rotating preview domains, so any origin is allowed
// and credentials stay disabled.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
