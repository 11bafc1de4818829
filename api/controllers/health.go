package controllers

import (
	"context"
	"net/http"

	"github.com/lelikelen/dashboard-backend/api/responses"
	"github.com/lelikelen/dashboard-backend/pkg/config"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// Pinger is the connectivity probe shared by the readiness dependencies.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LeliKelen-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores before reporting ready. A nil
// pinger is skipped, so optional dependencies do not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LeliKelen-Env", cfg.App.Env)

		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
