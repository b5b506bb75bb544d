package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrRateLimited        = errors.New("rate_limited")
	ErrMisconfigured      = errors.New("misconfigured")
	ErrValidation         = errors.New("validation")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// RateLimitedError reports a blocked attempt and how long the caller has to wait.
type RateLimitedError struct {
	MinutesLeft int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry in %d minutes", e.MinutesLeft)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }
