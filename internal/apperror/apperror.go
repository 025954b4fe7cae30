// Package apperror defines the typed failures raised by handlers.
// The response package is the only place they are turned into HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure carrying the HTTP status it should be reported with.
type Error struct {
	StatusCode int
	Message    string
	Errors     []string
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given status code and message.
func New(statusCode int, message string, errs ...string) *Error {
	if errs == nil {
		errs = []string{}
	}
	return &Error{StatusCode: statusCode, Message: message, Errors: errs}
}

// Wrap attaches a cause that is logged but never sent to the client.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "Not authenticated"
	}
	return New(http.StatusUnauthorized, message)
}

func InvalidInput(message string, errs ...string) *Error {
	return New(http.StatusBadRequest, message, errs...)
}

// InvalidID is raised for path ids that are present but not numeric.
func InvalidID(message string) *Error {
	return New(http.StatusForbidden, message)
}

func MissingEmail() *Error {
	return New(http.StatusBadRequest, "Email address is required to sync user")
}

func NotSynced() *Error {
	return New(http.StatusNotFound, "Local userId not found; Sync required")
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// NotFoundOrForbidden does not tell a missing row apart from one owned by
// somebody else.
func NotFoundOrForbidden(message string) *Error {
	return New(http.StatusNotFound, message)
}

func VoteFailed() *Error {
	return New(http.StatusBadRequest, "Something went wrong while voting")
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Internal() *Error {
	return New(http.StatusInternalServerError, "Internal Server Error")
}

// As reports whether err is (or wraps) an *Error and returns it.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
