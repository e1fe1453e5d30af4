// Package errors provides structured error types for the proposal engine.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout       = errors.New("operation timed out")
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("service unavailable")
	ErrChallengeBusy = errors.New("a challenge turn is already in flight for this session")
)

// ValidationError reports malformed input rejected before any external call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NewValidation creates a ValidationError for a named field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SchemaViolationError reports a model response that did not satisfy the
// declared output contract. The caller receives no partial result.
type SchemaViolationError struct {
	Operation string
	Reason    string
	Err       error
}

func (e *SchemaViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: response violated output schema: %s: %v", e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: response violated output schema: %s", e.Operation, e.Reason)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

// TransportError reports a call to the external inference service that
// failed to complete (timeout, non-2xx, quota).
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s transport error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s transport error: %s", e.Provider, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransport creates a TransportError for a provider call.
func NewTransport(provider string, statusCode int, message string) *TransportError {
	return &TransportError{Provider: provider, StatusCode: statusCode, Message: message}
}

// IsRetryable returns true if the error is likely transient and worth
// retrying. Neither the gateway nor the flows retry internally; this is
// advisory for callers that own a retry policy.
func IsRetryable(err error) bool {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		switch tErr.StatusCode {
		case 0, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
