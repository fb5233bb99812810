// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a trigger request carries a missing or wrong secret.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidRecord is returned when a typed record fails validation before it is written.
type ErrInvalidRecord struct {
	Entity string
	Field  string
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
}

// ConfigError represents a missing or malformed configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// SearchStatusError is a non-retryable HTTP status returned by the search API.
type SearchStatusError struct {
	StatusCode int
	Body       string
}

func (e *SearchStatusError) Error() string {
	return fmt.Sprintf("search API returned status %d: %s", e.StatusCode, e.Body)
}

// RateLimitExhaustedError is returned once every attempt was answered with 403/429.
type RateLimitExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RateLimitExhaustedError) Error() string {
	return fmt.Sprintf("search rate limited after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RateLimitExhaustedError) Unwrap() error {
	return e.Last
}

// TransportExhaustedError is returned once every attempt failed without a response.
type TransportExhaustedError struct {
	Attempts int
	Last     error
}

func (e *TransportExhaustedError) Error() string {
	return fmt.Sprintf("search transport failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *TransportExhaustedError) Unwrap() error {
	return e.Last
}

// IsRetryExhausted reports whether err is a search failure that ran out of attempts.
func IsRetryExhausted(err error) bool {
	var rl *RateLimitExhaustedError
	var tr *TransportExhaustedError
	return errors.As(err, &rl) || errors.As(err, &tr)
}
