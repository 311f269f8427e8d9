package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Error codes used across the console.
const (
	CodeUpstreamRejected    = "UPSTREAM_REJECTED"
	CodeUpstreamStatus      = "UPSTREAM_STATUS"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// Predefined errors for common scenarios.
var (
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrSubmitInFlight      = New("SUBMIT_IN_FLIGHT", http.StatusConflict, "another submission is already in progress")
	ErrUpstreamUnavailable = New(CodeUpstreamUnavailable, http.StatusBadGateway, "membership API is unreachable")
	ErrAggregation         = New("AGGREGATION_FAILED", http.StatusBadGateway, "failed to aggregate plan assignments")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// UpstreamRejected wraps a remote-reported failure that carried a message
// field; the message is surfaced to the operator verbatim.
func UpstreamRejected(status int, message string) *Error {
	return New(CodeUpstreamRejected, status, message)
}

// UpstreamStatus wraps a remote error response without a usable message.
func UpstreamStatus(status int) *Error {
	return New(CodeUpstreamStatus, status, fmt.Sprintf("membership API returned status %d", status))
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
