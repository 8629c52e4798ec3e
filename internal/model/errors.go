package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput: the submitted dream text is empty after trimming.
	ErrEmptyInput = errors.New("dream text is empty")
	// ErrInputTooLong: the submitted dream text exceeds the configured maximum.
	ErrInputTooLong = errors.New("dream text too long")
	// ErrServerMisconfigured: model credentials or configuration are missing.
	// Operator-actionable, never retried.
	ErrServerMisconfigured = errors.New("server misconfigured")
	// ErrModelUnavailable: transport failure, timeout or provider error while calling
	// the generative model. Transient; the caller may retry manually.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMalformedResponse: the model returned text that does not parse into one of
	// the three contract shapes.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrNotFound: no stored dream matches the lookup.
	ErrNotFound = errors.New("not found")
)

// RateLimitedError reports a denied rate-limit consume together with the delay after
// which the caller may try again.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
}

// RejectionError is the model's valid negative classification: the input was not a
// dream narrative. Reason is human-readable and shown to the user as-is.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return "not a dream: " + e.Reason }
