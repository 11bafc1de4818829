package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lelikelen/dashboard-backend/api/middleware"
	"github.com/lelikelen/dashboard-backend/api/responses"
	"github.com/lelikelen/dashboard-backend/api/validators"
	"github.com/lelikelen/dashboard-backend/internal/chat"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

type sendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type sendChatResponse struct {
	Response string `json:"response"`
}

// SendChat forwards one user message to the assistant and returns the reply.
func SendChat(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		var req sendChatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		response, err := svc.Send(r.Context(), callerID(r), req.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sendChatResponse{Response: response})
	}
}

// GetChatHistory returns the authenticated caller's transcript. Anonymous
// callers receive an empty list.
func GetChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		messages, err := svc.History(r.Context(), callerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"messages": messages})
	}
}

func callerID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
