package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
)

// ErrorKind classifies application errors so callers can pick the right
// user messaging without parsing strings.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindAuthorization   ErrorKind = "authorization"
	KindOrderProcessing ErrorKind = "order_processing"
	KindDatabase        ErrorKind = "database"
)

// Error carries a machine-checkable kind plus a message safe to show to end
// users. The wrapped cause is for logs only and must never reach a response.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a validation error with a formatted user message.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFoundf builds a not-found error naming the missing resource.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Authorizationf builds an authorization error.
func Authorizationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// OrderProcessingf builds a business-conflict error for the order pipeline.
func OrderProcessingf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindOrderProcessing, Message: fmt.Sprintf(format, args...)}
}

// Database wraps an infrastructure failure. The cause is retained for
// logging; message is what users may see.
func Database(err error, message string) *Error {
	return &Error{Kind: KindDatabase, Message: message, Err: err}
}

// KindOf reports the kind of err, or "" when err carries no kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return ""
}

func IsValidation(err error) bool      { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsAuthorization(err error) bool   { return KindOf(err) == KindAuthorization }
func IsOrderProcessing(err error) bool { return KindOf(err) == KindOrderProcessing }
func IsDatabase(err error) bool        { return KindOf(err) == KindDatabase }
