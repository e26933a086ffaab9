package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJSON           = errors.New("invalid JSON")
	ErrRateLimited           = errors.New("too many requests")
	ErrProviderNotConfigured = errors.New("provider API key is not configured")
	ErrSessionValueNotFound  = errors.New("session value not found")
)

// ValidationError reports the first structural rule a relay request broke.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

type ProviderErrorKind int8

const (
	ProviderErrorUnknown = ProviderErrorKind(iota)
	ProviderErrorAuth
	ProviderErrorQuota
	ProviderErrorRequest
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderErrorAuth:
		return "auth"
	case ProviderErrorQuota:
		return "quota"
	case ProviderErrorRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ProviderError is a classified failure of the model provider call.
type ProviderError struct {
	Kind       ProviderErrorKind
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error [%d]: %s", e.Kind, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("provider %s error: %s", e.Kind, e.Detail)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TransportError is a client-side failure to reach the relay or a non-2xx reply.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("relay responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("failed to reach relay: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
