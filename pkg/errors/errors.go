// Package errors provides structured error types for Canopy.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the coordinator, CLI, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into three recovery classes:
//   - Input validation (INVALID_*, DUPLICATE_NODE): recoverable, the graph
//     stays interactive
//   - Expansion failures (EXPAND_FAILED, LAYOUT_FAILED): recoverable, the
//     affected node can be retried
//   - Referential inconsistency (CORRUPT_STATE, NODE_NOT_FOUND): caller
//     bugs, surfaced loudly and the mutation is refused
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNode, "duplicate node id: %s", id)
//	if errors.Is(err, errors.ErrCodeDuplicateNode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExpandFailed, origErr, "expand %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidNodeID Code = "INVALID_NODE_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"

	// Recoverable operation failures
	ErrCodeExpandFailed Code = "EXPAND_FAILED"
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"

	// Referential inconsistency (caller/programmer errors)
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeCorruptState Code = "CORRUPT_STATE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether the error leaves the graph interactive.
// Validation and expansion errors are recoverable; referential
// inconsistencies (NODE_NOT_FOUND, CORRUPT_STATE) are not, since they
// indicate a collaborator bug.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeNodeNotFound, ErrCodeCorruptState:
		return false
	default:
		return true
	}
}
