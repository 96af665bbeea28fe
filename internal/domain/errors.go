package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidIdentifier = errors.New("invalid repository identifier")
	ErrRateLimitExceeded = errors.New("github api rate limit exceeded")
	ErrRequestFailed     = errors.New("github api request failed")
	ErrRequestExhausted  = errors.New("github api request retries exhausted")
)

// IdentifierError reports why a repository reference could not be parsed.
type IdentifierError struct {
	Input  string
	Reason string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Input)
}

func (e *IdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// RateLimitError is returned when the primary rate limit is exhausted.
// Remaining is empty when the response did not carry the header.
type RateLimitError struct {
	Remaining string
	ResetIn   time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (remaining=%s). Reset in %ds. Provide a token to increase limits.",
		e.Remaining, int64(e.ResetIn/time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimitExceeded }

// RequestError describes a call that ended without a usable response.
// StatusCode is 0 when no HTTP response was received.
type RequestError struct {
	Operation  string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("failed to %s after %d attempts (last status %d)", e.Operation, e.Attempts, e.StatusCode)
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("failed to %s: status %d", e.Operation, e.StatusCode)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *RequestError) Unwrap() []error {
	kind := ErrRequestFailed
	if e.Attempts > 0 {
		kind = ErrRequestExhausted
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}
