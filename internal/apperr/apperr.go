// Package apperr defines the error kinds services return and how the API
// layer maps them to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is any error that was not classified.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input. Nothing was written.
	KindValidation
	// KindNotFound is a referenced record that does not exist.
	KindNotFound
	// KindConflict is a record that is no longer in the state the operation needs.
	KindConflict
	// KindStorage is a persistence failure.
	KindStorage
	// KindNotification is a failed email notification.
	KindNotification
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	case KindNotification:
		return "notification"
	default:
		return "internal"
	}
}

// FieldViolation describes one invalid input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Fields is set for validation errors produced from a request schema.
	Fields []FieldViolation
	// Saved reports that the primary write committed before the failure.
	// Only notification errors set it.
	Saved bool
	Err   error
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

// Validation returns a validation error with optional field violations.
func Validation(message string, fields ...FieldViolation) *Error {
	if len(fields) > 0 && message == "" {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		message = "Validation failed: " + strings.Join(parts, "; ")
	}
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound returns a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Storage wraps a persistence failure.
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// Notification wraps a failed notification. saved reports whether the
// record the notification was about is already committed.
func Notification(message string, saved bool, err error) *Error {
	return &Error{Kind: KindNotification, Message: message, Saved: saved, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the API returns for it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
