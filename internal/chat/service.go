package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lelikelen/dashboard-backend/internal/inventory"
	"github.com/lelikelen/dashboard-backend/internal/schedule"
	"github.com/lelikelen/dashboard-backend/pkg/config"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	"github.com/lelikelen/dashboard-backend/pkg/enums"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/llm"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
	"github.com/lelikelen/dashboard-backend/pkg/metrics"
)

// Client-visible provider failure messages.
const (
	MsgRateLimited     = "Rate limit exceeded. Please try again later."
	MsgPaymentRequired = "Payment required. Please add credits to your AI workspace."
)

// Completer is the upstream completion surface the service depends on.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
	Model() string
}

// Service defines the chat proxy operations.
type Service interface {
	// Send grounds the message in current data, forwards it upstream, and
	// persists the exchange. userID is nil for anonymous callers.
	Send(ctx context.Context, userID *uuid.UUID, message string) (string, error)
	// History returns the caller's transcript. Anonymous callers get an
	// empty transcript.
	History(ctx context.Context, userID *uuid.UUID) ([]models.ChatMessage, error)
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	schedule  schedule.Repository
	completer Completer
	cfg       config.ChatConfig
	metrics   *metrics.ChatMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires chat dependencies. completer may be nil when no API key is
// configured; sends then fail per request instead of at startup.
func NewService(
	repo Repository,
	inventoryRepo inventory.Repository,
	scheduleRepo schedule.Repository,
	completer Completer,
	cfg config.ChatConfig,
	chatMetrics *metrics.ChatMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if inventoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if scheduleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "schedule repository required")
	}
	applyChatDefaults(&cfg)
	return &service{
		repo:      repo,
		inventory: inventoryRepo,
		schedule:  scheduleRepo,
		completer: completer,
		cfg:       cfg,
		metrics:   chatMetrics,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func applyChatDefaults(cfg *config.ChatConfig) {
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.TranscriptLimit == 0 {
		cfg.TranscriptLimit = 50
	}
	if cfg.UpcomingLimit == 0 {
		cfg.UpcomingLimit = 10
	}
	if cfg.PastServicesLimit == 0 {
		cfg.PastServicesLimit = 5
	}
}

func (s *service) Send(ctx context.Context, userID *uuid.UUID, message string) (string, error) {
	if message == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if s.completer == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "completion API key is not configured")
	}

	now := s.now()
	today := now.Format(schedule.DateLayout)

	items, err := s.inventory.List(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory")
	}
	upcoming, err := s.schedule.Upcoming(ctx, today, s.cfg.UpcomingLimit)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read schedule")
	}
	past, err := s.schedule.CompletedWithAttendance(ctx, s.cfg.PastServicesLimit)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read past services")
	}
	history, err := s.repo.ListRecent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read chat history")
	}

	systemPrompt := BuildSystemPrompt(PromptData{
		Inventory:    items,
		PastServices: past,
		Upcoming:     upcoming,
		Now:          now,
	})

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	start := time.Now()
	response, err := s.completer.Complete(ctx, messages)
	s.metrics.ObserveCompletion(s.completer.Model(), time.Since(start))
	if err != nil {
		return "", s.classifyProviderError(err)
	}
	s.metrics.IncSuccess()

	s.persistExchange(ctx, userID, message, response)

	return response, nil
}

func (s *service) classifyProviderError(err error) error {
	switch {
	case llm.IsRateLimited(err):
		s.metrics.IncFailure("rate_limited")
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, MsgRateLimited)
	case llm.IsPaymentRequired(err):
		s.metrics.IncFailure("payment_required")
		return pkgerrors.Wrap(pkgerrors.CodePaymentRequired, err, MsgPaymentRequired)
	default:
		s.metrics.IncFailure("gateway")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ai gateway error")
	}
}

// persistExchange appends the user and assistant rows sequentially. There is
// no transaction between the two inserts: a failure after the first leaves an
// orphaned user message, and the reply is still returned to the caller.
func (s *service) persistExchange(ctx context.Context, userID *uuid.UUID, message, response string) {
	userRow := &models.ChatMessage{
		UserID:  userID,
		Role:    enums.MessageRoleUser,
		Content: message,
	}
	if err := s.repo.Append(ctx, userRow); err != nil {
		s.logError(ctx, "persist user message", err)
		return
	}

	assistantRow := &models.ChatMessage{
		UserID:  userID,
		Role:    enums.MessageRoleAssistant,
		Content: response,
	}
	if err := s.repo.Append(ctx, assistantRow); err != nil {
		s.logError(ctx, "persist assistant message", err)
	}
}

func (s *service) History(ctx context.Context, userID *uuid.UUID) ([]models.ChatMessage, error) {
	if userID == nil {
		return []models.ChatMessage{}, nil
	}
	messages, err := s.repo.ListForUser(ctx, *userID, s.cfg.TranscriptLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read transcript")
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return messages, nil
}

func (s *service) logError(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}
