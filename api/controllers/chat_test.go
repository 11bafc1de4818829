package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelikelen/dashboard-backend/api/middleware"
	"github.com/lelikelen/dashboard-backend/internal/chat"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
)

type fakeChatService struct {
	sendFn    func(ctx context.Context, userID *uuid.UUID, message string) (string, error)
	historyFn func(ctx context.Context, userID *uuid.UUID) ([]models.ChatMessage, error)
}

func (f *fakeChatService) Send(ctx context.Context, userID *uuid.UUID, message string) (string, error) {
	if f.sendFn != nil {
		return f.sendFn(ctx, userID, message)
	}
	return "", nil
}

func (f *fakeChatService) History(ctx context.Context, userID *uuid.UUID) ([]models.ChatMessage, error) {
	if f.historyFn != nil {
		return f.historyFn(ctx, userID)
	}
	return []models.ChatMessage{}, nil
}

func postChat(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSendChatSuccess(t *testing.T) {
	svc := &fakeChatService{
		sendFn: func(ctx context.Context, userID *uuid.UUID, message string) (string, error) {
			assert.Nil(t, userID)
			assert.Equal(t, "hola", message)
			return "hola! como puedo ayudarte?", nil
		},
	}

	rec := postChat(SendChat(svc, nil), `{"message":"hola"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"hola! como puedo ayudarte?"}`, rec.Body.String())
}

func TestSendChatForwardsAuthenticatedCaller(t *testing.T) {
	userID := uuid.New()
	var got *uuid.UUID
	svc := &fakeChatService{
		sendFn: func(ctx context.Context, id *uuid.UUID, message string) (string, error) {
			got = id
			return "ok", nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hola"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	SendChat(svc, nil)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, userID, *got)
}

func TestSendChatRejectsMissingMessage(t *testing.T) {
	rec := postChat(SendChat(&fakeChatService{}, nil), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestSendChatRejectsMalformedBody(t *testing.T) {
	rec := postChat(SendChat(&fakeChatService{}, nil), `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendChatProviderErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"rate limited", pkgerrors.New(pkgerrors.CodeRateLimit, chat.MsgRateLimited), http.StatusTooManyRequests},
		{"payment required", pkgerrors.New(pkgerrors.CodePaymentRequired, chat.MsgPaymentRequired), http.StatusPaymentRequired},
		{"gateway failure", pkgerrors.New(pkgerrors.CodeDependency, "ai gateway error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeChatService{
				sendFn: func(ctx context.Context, userID *uuid.UUID, message string) (string, error) {
					return "", tc.err
				},
			}

			rec := postChat(SendChat(svc, nil), `{"message":"hola"}`)
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetChatHistoryAnonymous(t *testing.T) {
	svc := &fakeChatService{
		historyFn: func(ctx context.Context, userID *uuid.UUID) ([]models.ChatMessage, error) {
			assert.Nil(t, userID)
			return []models.ChatMessage{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	rec := httptest.NewRecorder()
	GetChatHistory(svc, nil)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}
