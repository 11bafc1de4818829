package controllers

import (
	"net/http"

	"github.com/lelikelen/dashboard-backend/api/responses"
	"github.com/lelikelen/dashboard-backend/internal/schedule"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// GetSchedule returns upcoming events and recent completed services.
func GetSchedule(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
