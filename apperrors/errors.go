package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrGone           = New(http.StatusGone, "Gone", nil)
	ErrTooManyRequest = New(http.StatusTooManyRequests, "Too many requests", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Database error classification. Repositories translate driver-specific
// failure codes into these once, at the data-access boundary.
var (
	ErrDuplicate       = New(http.StatusConflict, "Duplicate record", nil)
	ErrMissingRelation = New(http.StatusInternalServerError, "Relation does not exist", nil)
)

// Is reports whether err classifies as target. Classified errors are copies
// of the sentinels with a cause attached, so matching is by code and message
// rather than pointer identity.
func Is(err error, target *Error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code && appErr.Message == target.Message
	}
	return false
}

// IsNotFound reports whether err classifies as a missing record.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsDuplicate reports whether err classifies as a uniqueness conflict.
func IsDuplicate(err error) bool {
	return Is(err, ErrDuplicate)
}

// IsMissingRelation reports whether err classifies as a query against a
// table that has not been created. Optional features treat this as "no data".
func IsMissingRelation(err error) bool {
	return Is(err, ErrMissingRelation)
}

// StatusOf returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
