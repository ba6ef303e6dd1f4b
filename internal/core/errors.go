// Package core provides the shared types and interfaces for the dispatch layer.
package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a dispatch failure so callers can branch on the kind
// instead of matching substrings of the message.
type ErrorKind string

const (
	// ErrorKindProvider indicates an upstream provider failure (5xx, transport, malformed payload)
	ErrorKindProvider ErrorKind = "provider_error"
	// ErrorKindRateLimit indicates the provider rejected the call with 429
	ErrorKindRateLimit ErrorKind = "rate_limit_error"
	// ErrorKindInvalidRequest indicates a caller error (4xx)
	ErrorKindInvalidRequest ErrorKind = "invalid_request_error"
	// ErrorKindAuthentication indicates the provider rejected the credential (401/403)
	ErrorKindAuthentication ErrorKind = "authentication_error"
	// ErrorKindMissingCredential indicates no credential could be resolved; the call was never attempted
	ErrorKindMissingCredential ErrorKind = "missing_credential"
	// ErrorKindUnknownProvider indicates the requested engine or provider name is not registered
	ErrorKindUnknownProvider ErrorKind = "unknown_provider"
	// ErrorKindTimeout indicates the call deadline elapsed before the provider answered
	ErrorKindTimeout ErrorKind = "timeout_error"
)

// DispatchError is the tagged error type for all dispatch failures.
type DispatchError struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *DispatchError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Kind {
	case ErrorKindRateLimit:
		return http.StatusTooManyRequests
	case ErrorKindInvalidRequest, ErrorKindUnknownProvider:
		return http.StatusBadRequest
	case ErrorKindAuthentication:
		return http.StatusUnauthorized
	case ErrorKindMissingCredential:
		return http.StatusServiceUnavailable
	case ErrorKindTimeout:
		return http.StatusGatewayTimeout
	case ErrorKindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *DispatchError) ToJSON() map[string]interface{} {
	inner := map[string]interface{}{
		"kind":    e.Kind,
		"message": e.Message,
	}
	if e.Provider != "" {
		inner["provider"] = e.Provider
	}
	return map[string]interface{}{"error": inner}
}

// KindOf returns the ErrorKind of err, or "" when err is not a DispatchError.
func KindOf(err error) ErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// NewProviderError creates a new provider error (upstream failure)
func NewProviderError(provider string, statusCode int, message string, err error) *DispatchError {
	return &DispatchError{
		Kind:       ErrorKindProvider,
		Message:    message,
		StatusCode: statusCode,
		Provider:   provider,
		Err:        err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(provider string, message string) *DispatchError {
	return &DispatchError{
		Kind:       ErrorKindRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Provider:   provider,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *DispatchError {
	return &DispatchError{
		Kind:       ErrorKindInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewAuthenticationError creates a new authentication error (401)
func NewAuthenticationError(provider string, message string) *DispatchError {
	return &DispatchError{
		Kind:       ErrorKindAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Provider:   provider,
	}
}

// NewMissingCredentialError signals that no credential could be resolved for the
// provider. The message names the env var checked so operators can fix the setup.
func NewMissingCredentialError(provider, envKey string) *DispatchError {
	return &DispatchError{
		Kind:     ErrorKindMissingCredential,
		Message:  fmt.Sprintf("credential missing: %s not found in environment or secrets store", envKey),
		Provider: provider,
	}
}

// NewUnknownProviderError signals that the requested engine or provider name
// matched no registered provider. This is an explicit failure, never a silent no-op.
func NewUnknownProviderError(name string) *DispatchError {
	return &DispatchError{
		Kind:    ErrorKindUnknownProvider,
		Message: fmt.Sprintf("unknown provider: %q", name),
	}
}

// NewTimeoutError creates a timeout error, distinct from a generic transport failure.
func NewTimeoutError(provider string, err error) *DispatchError {
	return &DispatchError{
		Kind:       ErrorKindTimeout,
		Message:    "request deadline exceeded",
		StatusCode: http.StatusGatewayTimeout,
		Provider:   provider,
		Err:        err,
	}
}

// ParseProviderError parses an error response body from a provider and returns
// an appropriately tagged DispatchError. Providers return OpenAI-shaped error
// bodies; gjson tolerates anything else and we fall back to the raw body.
func ParseProviderError(provider string, statusCode int, body []byte, originalErr error) *DispatchError {
	message := string(body)
	if m := gjson.GetBytes(body, "error.message"); m.Exists() && m.String() != "" {
		message = m.String()
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(provider, message)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(provider, message)
	case statusCode >= 400 && statusCode < 500:
		err := NewInvalidRequestError(message, originalErr)
		err.StatusCode = statusCode
		err.Provider = provider
		return err
	default:
		return NewProviderError(provider, http.StatusBadGateway, message, originalErr)
	}
}
