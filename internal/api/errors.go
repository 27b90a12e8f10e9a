package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the machine-readable failure surfaced to API clients.
type Error struct {
	Code    string `json:"error_code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound reports a missing entity.
func NotFound(resource string) *Error {
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: resource + " not found"}
}

// Unauthorized reports a missing, invalid or expired token.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{Code: "UNAUTHORIZED", Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller without access to the resource.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return &Error{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: message}
}

// ValidationFailed reports malformed input with per-field detail.
func ValidationFailed(message string, fields map[string]string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Code: "VALIDATION_FAILED", Status: http.StatusUnprocessableEntity, Message: message, Details: fields}
}

// Protected reports an attempt to mutate a system-flagged resource.
func Protected(message string) *Error {
	return &Error{Code: "PROTECTED_RESOURCE", Status: http.StatusForbidden, Message: message}
}

// RateLimited reports an exhausted rate-limit window.
func RateLimited(retryAfter int64) *Error {
	return &Error{
		Code:    "RATE_LIMITED",
		Status:  http.StatusTooManyRequests,
		Message: "Rate limit exceeded",
		Details: map[string]int64{"retry_after": retryAfter},
	}
}

// Internal reports an unexpected failure without leaking its cause.
func Internal() *Error {
	return &Error{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError, Message: "Internal server error"}
}

// AsError extracts an *Error from err, falling back to Internal.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}
