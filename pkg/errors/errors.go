// Package errors provides structured errors carrying a machine readable code.
//
// Every failure in a script build is terminal. The code tells the caller which
// class of failure occurred so that the CLI can print a precise diagnostic:
//
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "Must set RELEASE_NAME in the environment")
//	if errors.IsCode(err, errors.ErrCodeInvalidConfiguration) {
//	    // ...
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// ErrCodeInvalidConfiguration is a missing or malformed input variable.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeUnsupportedProtocol is a push target whose URL scheme is not known.
	ErrCodeUnsupportedProtocol ErrorCode = "UNSUPPORTED_PROTOCOL"

	// ErrCodeRepositoryType is a probe that succeeded but could not identify the repository.
	ErrCodeRepositoryType ErrorCode = "REPOSITORY_TYPE_UNKNOWN"

	// ErrCodeTransport is a request that never produced a response.
	ErrCodeTransport ErrorCode = "TRANSPORT"

	// ErrCodeUnauthorized is an upstream 401.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeUpstream is any other non-2xx upstream response.
	ErrCodeUpstream ErrorCode = "UPSTREAM"

	// ErrCodeTimeout is an expired deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeInternal is everything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is an error with a code, a human readable message and an
// optional cause and context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface. The message comes first so that
// configuration errors read exactly as the user-facing diagnostic.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext creates a StructuredError around cause with extra context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the first StructuredError in the chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
