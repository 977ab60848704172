// Package apperr centralizes error-to-HTTP-status mapping so handlers and
// services stay free of status-code plumbing.
package apperr

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a request-scoped failure with a fixed HTTP status. Every Error is
// recoverable; nothing in this package is fatal to the process.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports a bad or missing input field. 400.
func Validation(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NotFound reports a missing user, account or interest row. 400 rather than
// 404: the public API folds every business failure into a 400-class reply.
func NotFound(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Duplicate reports an already-registered phone or already-sent interest. 400.
func Duplicate(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Inactive reports that a party's account is not active. 400.
func Inactive(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// CredentialMismatch reports a wrong old password on reset. 400.
func CredentialMismatch(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Upload reports a storage write failure for a single file. 500.
func Upload(msg string) error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// Internal reports a collaborator failure (mail relay, storage) with a
// caller-facing message. 500.
func Internal(msg string) error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// Status resolves the HTTP status and message for any error.
//
// Known domain errors keep their status; common infra errors get fixed
// replies; anything else becomes a 500 carrying the raw error text (the wire
// format callers already depend on).
func Status(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Message
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusBadRequest, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest, "request was canceled"

	default:
		return http.StatusInternalServerError, err.Error()
	}
}
