// Package errors provides structured error types for modstack.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, the mod set loader and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures and contract violations
//   - *_NOT_FOUND: Resource not found
//   - Resolution codes (VERSION_MISMATCH, DEPENDENCY_CYCLE) for graph failures
//   - INTERNAL_*: Unexpected internal errors
//
// Typed errors defined elsewhere (for example the resolution errors in
// package deps) participate by implementing [Coder].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "unknown layout %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidMod       Code = "INVALID_MOD"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidVersion   Code = "INVALID_VERSION"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"

	// Resource not found errors
	ErrCodeModNotFound  Code = "MOD_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Resolution errors
	ErrCodeVersionMismatch Code = "VERSION_MISMATCH"
	ErrCodeDependencyCycle Code = "DEPENDENCY_CYCLE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Coder is implemented by typed errors that carry a [Code] without being an [*Error].
type Coder interface {
	error
	Code() Code
}

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
// It unwraps the error chain looking for an *Error or a [Coder] with a matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// The chain is walked from the outside in and the first *Error or [Coder]
// found wins. Joined errors are searched in order. Returns empty string if no
// error in the chain carries a code.
func GetCode(err error) Code {
	switch e := err.(type) {
	case nil:
		return ""
	case *Error:
		return e.Code
	case Coder:
		return e.Code()
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if code := GetCode(inner); code != "" {
				return code
			}
		}
		return ""
	}
	return GetCode(errors.Unwrap(err))
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
