package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lelikelen/dashboard-backend/pkg/enums"
)

// SessionState models the chat panel lifecycle.
type SessionState string

const (
	SessionIdle     SessionState = "idle"
	SessionAwaiting SessionState = "awaiting-response"
	SessionError    SessionState = "error-displayed"
)

var (
	// ErrEmptyMessage rejects blank or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrAwaitingResponse rejects a submit while a previous one is in flight.
	ErrAwaitingResponse = errors.New("a response is still pending")
)

// TranscriptEntry is one visible line of the session transcript.
type TranscriptEntry struct {
	Role    enums.MessageRole `json:"role"`
	Content string            `json:"content"`
}

// Session tracks one caller's conversation. The user message is appended
// optimistically on submit and stays visible even when the send fails.
type Session struct {
	svc    Service
	userID *uuid.UUID

	mu         sync.Mutex
	state      SessionState
	transcript []TranscriptEntry
	lastError  string
}

// NewSession seeds a session from the caller's stored transcript. Anonymous
// callers start empty.
func NewSession(ctx context.Context, svc Service, userID *uuid.UUID) (*Session, error) {
	if svc == nil {
		return nil, errors.New("chat service required")
	}

	history, err := svc.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	transcript := make([]TranscriptEntry, 0, len(history))
	for _, m := range history {
		transcript = append(transcript, TranscriptEntry{Role: m.Role, Content: m.Content})
	}

	return &Session{
		svc:        svc,
		userID:     userID,
		state:      SessionIdle,
		transcript: transcript,
	}, nil
}

// Submit sends one message. The user entry is appended before the network
// call; the assistant entry only on success.
func (s *Session) Submit(ctx context.Context, input string) (string, error) {
	message := strings.TrimSpace(input)
	if message == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == SessionAwaiting {
		s.mu.Unlock()
		return "", ErrAwaitingResponse
	}
	s.state = SessionAwaiting
	s.lastError = ""
	s.transcript = append(s.transcript, TranscriptEntry{Role: enums.MessageRoleUser, Content: message})
	s.mu.Unlock()

	response, err := s.svc.Send(ctx, s.userID, message)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionError
		s.lastError = err.Error()
		return "", err
	}

	s.transcript = append(s.transcript, TranscriptEntry{Role: enums.MessageRoleAssistant, Content: response})
	s.state = SessionIdle
	return response, nil
}

// AcknowledgeError dismisses the transient error notification.
func (s *Session) AcknowledgeError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionError {
		s.state = SessionIdle
		s.lastError = ""
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the message of the most recent failed submit.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Transcript returns a copy of the visible conversation.
func (s *Session) Transcript() []TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}
