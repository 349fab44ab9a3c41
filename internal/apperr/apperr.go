// Package apperr defines the closed set of caller-visible error variants
// and their mapping to transport status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeMissingIdentity   Code = "MISSING_USER_ID"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// statusByCode is the single mapping from error variants to HTTP status.
var statusByCode = map[Code]int{
	CodeValidation:        http.StatusBadRequest,
	CodeMissingIdentity:   http.StatusUnauthorized,
	CodeNotFound:          http.StatusNotFound,
	CodeInvalidTransition: http.StatusUnprocessableEntity,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInternal:          http.StatusInternalServerError,
}

type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) HTTPStatus() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func MissingIdentity(message string) *Error {
	return &Error{Code: CodeMissingIdentity, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// InvalidTransition carries both ends of the rejected status edge.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("invalid transition %s -> %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

func RateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}

// From normalizes any error to a tagged variant. Unrecognized errors become
// INTERNAL_ERROR without leaking their message to the caller.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error")
}
