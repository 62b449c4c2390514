// Package errors provides structured error types for the adforge engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, HTTP API and editing sessions
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures and contract violations
//   - *_NOT_FOUND / ASSET_MISSING: Resources that were not supplied or do not exist
//   - IMAGE_DECODE / RENDER_FAILED: Per-creative rendering failures
//   - NETWORK_* / TIMEOUT: Remote asset fetch failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown ratio %q", r)
//	if errors.Is(err, errors.ErrCodeInvalidTemplateOrRatio) {
//	    // Programmer error: fail fast
//	}
//
//	// Wrap decoder failures
//	err := errors.Wrap(errors.ErrCodeImageDecode, origErr, "decode packshot")
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
	ErrCodeInvalidInput           Code = "INVALID_INPUT"
	ErrCodeInvalidTemplateOrRatio Code = "INVALID_TEMPLATE_OR_RATIO"
	ErrCodeInvalidColor           Code = "INVALID_COLOR"
	ErrCodeInvalidLayout          Code = "INVALID_LAYOUT"
	ErrCodeInvalidFormat          Code = "INVALID_FORMAT"

	// Asset errors
	ErrCodeImageDecode  Code = "IMAGE_DECODE"
	ErrCodeAssetMissing Code = "ASSET_MISSING"
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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
// It unwraps the error chain looking for an *Error with a matching code,
// so an IMAGE_DECODE error wrapped by a RENDER_FAILED error matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// IsImageDecode reports whether err is (or wraps) an image decode failure.
func IsImageDecode(err error) bool { return Is(err, ErrCodeImageDecode) }

// IsAssetMissing reports whether err is (or wraps) a missing-asset failure.
func IsAssetMissing(err error) bool { return Is(err, ErrCodeAssetMissing) }
