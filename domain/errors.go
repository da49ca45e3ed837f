package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeBadCredentials  ErrorCode = "BAD_CREDENTIALS"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeUnknownSession  ErrorCode = "UNKNOWN_SESSION"
	ErrCodeExpiredSession  ErrorCode = "EXPIRED_SESSION"
	ErrCodeInactiveSession ErrorCode = "INACTIVE_SESSION"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInvalid         ErrorCode = "INVALID"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors. Messages are client-facing and must not leak detail.
var (
	ErrBadCredentials  = NewError(ErrCodeBadCredentials, "Invalid credentials")
	ErrMissingToken    = NewError(ErrCodeMissingToken, "No session token provided")
	ErrUnknownSession  = NewError(ErrCodeUnknownSession, "Invalid session")
	ErrExpiredSession  = NewError(ErrCodeExpiredSession, "Session expired")
	ErrInactiveSession = NewError(ErrCodeInactiveSession, "Session inactive")
	ErrRouteNotFound   = NewError(ErrCodeNotFound, "Not found")
	ErrInternal        = NewError(ErrCodeInternal, "Internal server error")

	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrSessionConflict = NewError(ErrCodeConflict, "session token already exists")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsUnauthorized reports whether err belongs to the 401 family.
func IsUnauthorized(err error) bool {
	var dErr *Error
	if !errors.As(err, &dErr) {
		return false
	}
	switch dErr.Code {
	case ErrCodeBadCredentials, ErrCodeMissingToken, ErrCodeUnknownSession,
		ErrCodeExpiredSession, ErrCodeInactiveSession:
		return true
	}
	return false
}
