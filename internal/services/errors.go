package services

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks an upstream answer without usable candidate text.
var ErrMalformedResponse = errors.New("malformed upstream response")

// MissingFieldError is a caller error: fix the input, do not retry.
type MissingFieldError struct{ Field string }

func (e *MissingFieldError) Error() string { return fmt.Sprintf("%s is required", e.Field) }

// UnconfiguredError means the operator has not supplied the upstream API key.
type UnconfiguredError struct{ Details string }

func (e *UnconfiguredError) Error() string {
	return "AI service is not configured. Please set up Google AI API key."
}

// UpstreamError wraps a failed call to the generative API. The relay never retries it.
type UpstreamError struct{ Err error }

func (e *UpstreamError) Error() string { return "upstream request failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError means the upstream call succeeded but carried no usable text.
type MalformedResponseError struct{ Reason string }

func (e *MalformedResponseError) Error() string { return "invalid response from AI service: " + e.Reason }

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }
