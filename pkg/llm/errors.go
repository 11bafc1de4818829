package llm

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Error carries the provider HTTP status so callers can map rate-limit and
// billing failures to their own contract.
type Error struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm: HTTP %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRateLimited reports whether the provider rejected the call with 429.
func IsRateLimited(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.StatusCode == 429
}

// IsPaymentRequired reports whether the provider rejected the call with 402.
func IsPaymentRequired(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.StatusCode == 402
}

// ClassifyError converts go-openai errors into a structured *Error preserving
// the provider status code.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Cause:      err,
		}
	}

	return &Error{Message: err.Error(), Cause: err}
}
