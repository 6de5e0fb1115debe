package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrRateLimit       = errors.New("rate limited")
	ErrUnavailable     = errors.New("provider unavailable")
	ErrRejected        = errors.New("request rejected")
	ErrInvalidResponse = errors.New("invalid response")
	ErrTruncated       = errors.New("response truncated at max tokens")
	ErrNotConfigured   = errors.New("no LLM provider configured")
)

// Error is a classified provider failure.
type Error struct {
	Kind       error
	RetryAfter time.Duration
	// Content is the offending output for ErrInvalidResponse and ErrTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classifyStatus turns an HTTP status from a provider SDK into an Error.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: ErrRateLimit, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: ErrRejected, Err: err}
	default:
		return &Error{Kind: ErrUnavailable, Err: err}
	}
}

// retryable reports whether err is worth another attempt. An invalid
// response is retried once; invalidSeen tracks that.
func retryable(err error, invalidSeen *bool) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrRejected), errors.Is(err, ErrNotConfigured):
		return false
	case errors.Is(err, ErrInvalidResponse):
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
		return true
	}
	return true
}
