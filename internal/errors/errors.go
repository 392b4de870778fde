// Package errors provides standardized domain errors with codes for the triage client.
//
// Usage:
//
//	// In collaborators - return typed errors
//	if resp.StatusCode == http.StatusNotFound {
//	    return errors.NotFoundf("item %s", itemID)
//	}
//
//	// In controllers - check with errors.Is
//	if errors.Is(err, errors.ErrTransport) {
//	    c.setError(err.Error())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the client.
const (
	CodeNotFound    Code = "NOT_FOUND"
	CodeValidation  Code = "VALIDATION"
	CodeTransport   Code = "TRANSPORT"
	CodeStorage     Code = "STORAGE"
	CodeRateLimited Code = "RATE_LIMITED"
	CodeInternal    Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code an error code corresponds to.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeForStatus maps an HTTP status received from the listings API to a code.
func CodeForStatus(status int) Code {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeTransport
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound    = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation  = &Error{Code: CodeValidation, Message: "validation error"}
	ErrTransport   = &Error{Code: CodeTransport, Message: "transport error"}
	ErrStorage     = &Error{Code: CodeStorage, Message: "storage error"}
	ErrRateLimited = &Error{Code: CodeRateLimited, Message: "rate limited"}
	ErrInternal    = &Error{Code: CodeInternal, Message: "internal error"}
)

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Storage wraps a storage collaborator failure.
func Storage(err error, msg string) *Error {
	return &Error{Code: CodeStorage, Message: msg, cause: err}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
