package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by providers that lack an operation.
	ErrUnsupported = errors.New("operation not supported by provider")

	// ErrEmptyReply is returned when the provider answered without text.
	ErrEmptyReply = errors.New("provider returned an empty reply")

	// ErrMissingAPIKey is returned at construction when a hosted provider
	// has no credentials.
	ErrMissingAPIKey = errors.New("api key is required")
)

// UpstreamError wraps a failed provider call so callers can tell which
// provider and operation failed, and with what HTTP status if any.
type UpstreamError struct {
	Provider   string
	Op         string // "complete" or "embed"
	StatusCode int    // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(provider, op string, status int, err error) error {
	return &UpstreamError{Provider: provider, Op: op, StatusCode: status, Err: err}
}
