package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestClassifyErrorAPIError(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 429, Message: "rate limit exceeded"}
	err := ClassifyError(apiErr)

	if !IsRateLimited(err) {
		t.Fatalf("expected rate-limited classification, got %v", err)
	}
	if IsPaymentRequired(err) {
		t.Fatalf("429 should not classify as payment required")
	}
}

func TestClassifyErrorPaymentRequired(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 402, Message: "insufficient credits"}
	err := ClassifyError(fmt.Errorf("calling gateway: %w", apiErr))

	if !IsPaymentRequired(err) {
		t.Fatalf("expected payment-required classification, got %v", err)
	}
}

func TestClassifyErrorGeneric(t *testing.T) {
	err := ClassifyError(errors.New("connection refused"))

	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if typed.StatusCode != 0 {
		t.Fatalf("generic errors should carry no status, got %d", typed.StatusCode)
	}
	if IsRateLimited(err) || IsPaymentRequired(err) {
		t.Fatal("generic error misclassified")
	}
}

func TestClassifyErrorIdempotent(t *testing.T) {
	original := &Error{StatusCode: 500, Message: "boom"}
	if got := ClassifyError(original); got != original {
		t.Fatalf("expected already-classified error returned as-is, got %v", got)
	}
}
