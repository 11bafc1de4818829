package controllers

import (
	"net/http"

	"github.com/lelikelen/dashboard-backend/api/responses"
	"github.com/lelikelen/dashboard-backend/internal/inventory"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// ListInventory returns the current inventory with derived low-stock flags.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
