package service

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

// ErrorCode identifies a machine-stable engine error code.
type ErrorCode string

const (
	// ErrCodeInvalidArgument malformed or missing input, client-correctable
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUnauthorized missing or invalid token
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeNotFound entity absent or access disallowed; the two are
	// deliberately indistinguishable so existence never leaks
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists duplicate email on registration
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeIsFolder content requested for a folder
	ErrCodeIsFolder ErrorCode = "IS_FOLDER"
	// ErrCodeStorage disk or database failure, not client-correctable
	ErrCodeStorage ErrorCode = "STORAGE_FAILURE"
)

// Error captures a typed engine error with a user-presentable reason.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error returns the error message.
func (e *Error) Error() string {
	if e == nil {
		return "engine error: <nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("engine error: %s", e.Code)
	}
	return e.Message
}

// NewError constructs a typed engine error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError extracts a typed engine error from the error chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// IsCode reports whether the error chain contains the given code.
func IsCode(err error, code ErrorCode) bool {
	if typed, ok := AsError(err); ok {
		return typed.Code == code
	}
	return false
}
