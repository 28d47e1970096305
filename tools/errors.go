package tools

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a tool name resolves to nothing.
var ErrNotFound = errors.New("tool not found")

// Error is a tool execution failure carrying an optional cause.
type Error struct {
	// Message describes the failure.
	Message string
	cause   error
}

// NewError returns a tool error with the given message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// Errorf returns a tool error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WrapError returns a tool error wrapping cause.
func WrapError(message string, cause error) *Error {
	return &Error{Message: message, cause: cause}
}

// Error implements error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}
