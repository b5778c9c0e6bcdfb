// Package errors provides structured error types for mcviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the painter, the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or contract violations by an upstream collaborator
//   - DEGENERATE_* / CONFLICTING_*: Geometry and document assembly violations
//   - LAYOUT_*: Failures of the external layout engine
//   - INTERNAL_*: Unexpected internal errors
//
// A missing glyph is not an error: the document falls back to a text label.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidAnnotationPosition, "unknown position %q", pos)
//	if errors.Is(err, errors.ErrCodeInvalidAnnotationPosition) {
//	    // Handle contract violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayoutFailed, origErr, "run %s", engine)
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
	ErrCodeInvalidInput              Code = "INVALID_INPUT"
	ErrCodeInvalidFormat             Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle              Code = "INVALID_STYLE"
	ErrCodeInvalidLineType           Code = "INVALID_LINE_TYPE"
	ErrCodeInvalidAnnotationPosition Code = "INVALID_ANNOTATION_POSITION"
	ErrCodeInvalidCatalog            Code = "INVALID_CATALOG"
	ErrCodeInvalidConfig             Code = "INVALID_CONFIG"

	// Geometry and assembly errors
	ErrCodeDegenerateGeometry   Code = "DEGENERATE_GEOMETRY"
	ErrCodeConflictingTransform Code = "CONFLICTING_TRANSFORM"

	// Layout engine errors
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsInput reports whether err is a caller-side contract violation, i.e. one
// the HTTP layer should answer with a 4xx status.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidStyle,
		ErrCodeInvalidLineType, ErrCodeInvalidAnnotationPosition,
		ErrCodeDegenerateGeometry, ErrCodeConflictingTransform:
		return true
	}
	return false
}
