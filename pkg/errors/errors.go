// Package errors provides structured error types for the Partboard application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the model core, CLI, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - DUPLICATE_*/UNKNOWN_*: model structure violations
//   - *_RECORDING/NOTHING_TO_*: undo manager state violations
//   - NOT_FOUND_*: resource not found
//   - INVALID_*: input validation failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateKey, "node key %d already exists", key)
//	if errors.Is(err, errors.ErrCodeDuplicateKey) {
//	    // Handle the structural violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "failed to render %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model structure errors
	ErrCodeDuplicateKey    Code = "DUPLICATE_KEY"
	ErrCodeUnknownRecord   Code = "UNKNOWN_RECORD"
	ErrCodeUnresolvedLink  Code = "UNRESOLVED_LINK_ENDPOINT"
	ErrCodeUnknownTemplate Code = "UNKNOWN_TEMPLATE"
	ErrCodeInvalidRecord   Code = "INVALID_RECORD"

	// Undo manager state errors
	ErrCodeAlreadyRecording Code = "ALREADY_RECORDING"
	ErrCodeNotRecording     Code = "NOT_RECORDING"
	ErrCodeNothingToUndo    Code = "NOTHING_TO_UNDO"
	ErrCodeNothingToRedo    Code = "NOTHING_TO_REDO"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

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

// HTTPStatus maps an error code to an HTTP status code for the API layer.
// Unknown codes and plain errors map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeDuplicateKey, ErrCodeAlreadyRecording, ErrCodeNotRecording:
		return 409
	case ErrCodeUnknownRecord, ErrCodeNotFound, ErrCodeDocumentNotFound, ErrCodeFileNotFound:
		return 404
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidRecord, ErrCodeUnknownTemplate:
		return 400
	case ErrCodeNothingToUndo, ErrCodeNothingToRedo:
		return 422
	default:
		return 500
	}
}
