// Package apperr defines the application error taxonomy. Every error that
// crosses an operation boundary is one of exactly four kinds; callers branch
// on the kind, never on message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation    Kind = "ValidationError"
	KindAuthorization Kind = "AuthorizationError"
	KindNotFound      Kind = "NotFoundError"
	KindInternal      Kind = "InternalError"
)

// Sentinel errors, one per kind, for errors.Is matching.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
	ErrInternal      = errors.New("internal error")
)

var kindSentinel = map[Kind]error{
	KindValidation:    ErrValidation,
	KindAuthorization: ErrAuthorization,
	KindNotFound:      ErrNotFound,
	KindInternal:      ErrInternal,
}

// AppError is an application error with a kind and a human-readable message.
// For internal errors the original cause is retained for logging but is never
// part of the caller-facing message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, or the kind sentinel when there is none.
func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return kindSentinel[e.Kind]
}

// Is reports whether target matches this error's kind or wrapped cause.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind
	}
	if sentinel, ok := kindSentinel[e.Kind]; ok && target == sentinel {
		return true
	}
	return errors.Is(e.Err, target)
}

// Validation creates a ValidationError.
func Validation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Authorization creates an AuthorizationError.
func Authorization(format string, args ...any) *AppError {
	return &AppError{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFoundError.
func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an InternalError wrapping the underlying cause. The message
// shown to callers is generic; cause goes to the logs only.
func Internal(message string, err error) *AppError {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for anything outside the
// taxonomy.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Normalize returns err unchanged when it already carries a kind, otherwise
// wraps it as an InternalError. This is the single choke point the request
// router uses before anything reaches the caller.
func Normalize(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInternal reports whether err is an InternalError.
func IsInternal(err error) bool { return KindOf(err) == KindInternal }
