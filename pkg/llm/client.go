// Package llm provides the OpenAI-compatible completion client used by the
// chat proxy.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// Message is one turn of a conversation forwarded to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles accepted by the gateway.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Client calls an OpenAI-compatible chat-completion endpoint.
type Client struct {
	client *openai.Client
	model  string
	logg   *logger.Logger
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Endpoint string // Base URL, e.g. "https://ai.gateway.lovable.dev/v1"
	Model    string // Fixed model identifier forwarded on every call
	APIKey   string
}

// NewClient creates a new OpenAI-compatible LLM client.
func NewClient(cfg Config, logg *logger.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logg:   logg,
	}, nil
}

// Complete forwards the conversation to the provider, non-streaming, and
// returns the single completion text. Failures are classified but never
// retried here.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: converted,
		Stream:   false,
	})
	if err != nil {
		if c.logg != nil {
			lctx := c.logg.WithFields(ctx, map[string]any{
				"model":       c.model,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			c.logg.Error(lctx, "llm request failed", err)
		}
		return "", ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	if c.logg != nil {
		lctx := c.logg.WithFields(ctx, map[string]any{
			"model":             c.model,
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"duration_ms":       time.Since(start).Milliseconds(),
		})
		c.logg.Info(lctx, "llm request completed")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}
