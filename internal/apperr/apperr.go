// Package apperr defines the error taxonomy shared by the HTTP layer, the
// stores, and the agent pipeline. Handlers map these onto status codes;
// anything else becomes a generic 500 with no internal detail leaked.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	KindAuthentication Kind = iota // 401
	KindAccessDenied               // 403
	KindNotFound                   // 404
	KindValidation                 // 422
	KindRateLimited                // 429
	KindUpstream                   // 503
	KindTimeout                    // 504
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Code    string // stable machine-readable code, e.g. "VALIDATION_ERROR"
	Message string // safe for clients
	Field   string // optional field name for validation errors

	// RetryAfter carries the remaining lockout in seconds for rate limit errors.
	RetryAfter int

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error for logging; the cause never
// reaches the client.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

func Authentication(message string) *Error {
	if message == "" {
		message = "invalid or missing token"
	}
	return &Error{Kind: KindAuthentication, Code: "UNAUTHORIZED", Message: message}
}

func AccessDenied(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return &Error{Kind: KindAccessDenied, Code: "ACCESS_DENIED", Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "not found"
	}
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Field: field}
}

func RateLimited(message string, retryAfter int) *Error {
	return &Error{Kind: KindRateLimited, Code: "RATE_LIMIT_EXCEEDED", Message: message, RetryAfter: retryAfter}
}

func Upstream(message string) *Error {
	if message == "" {
		message = "service temporarily unavailable"
	}
	return &Error{Kind: KindUpstream, Code: "SERVICE_UNAVAILABLE", Message: message}
}

func Timeout(message string) *Error {
	if message == "" {
		message = "request took too long to process"
	}
	return &Error{Kind: KindTimeout, Code: "TIMEOUT", Message: message}
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}
