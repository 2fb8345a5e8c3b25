package errors

import (
	"errors"
	"fmt"
)

// Error code constants
const (
	CodeUsage             = "USAGE"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeDestinationFailed = "DESTINATION_FAILED"
	CodeArchiveFailed     = "ARCHIVE_FAILED"
	CodeUnreadableFile    = "UNREADABLE_FILE"
	CodeInvalidMethod     = "INVALID_METHOD"
	CodeInvalidPolicy     = "INVALID_POLICY"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeInvalidEntryName  = "INVALID_ENTRY_NAME"
)

// Error represents a zipdir error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	wrapped error
	Code    string
	Message string
}

// Error returns the error message, implementing the error interface.
func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, supporting errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// New creates a new zipdir error with the given code and message.
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new zipdir error that wraps an underlying error.
func Wrap(code string, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		wrapped: err,
	}
}

// Code extracts the error code from an error.
// Returns an empty string if the error is not a zipdir error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var zipdirErr *Error
	if errors.As(err, &zipdirErr) {
		return zipdirErr.Code
	}
	return ""
}

// Is checks if an error has a specific error code.
func Is(err error, code string) bool {
	return Code(err) == code
}

// As is errors.As, re-exported so callers importing this package
// under the name errors keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Convenience constructors for each error code

// Usage creates a USAGE error.
func Usage(reason string) *Error {
	return New(CodeUsage, reason)
}

// SourceUnavailable creates a SOURCE_UNAVAILABLE error wrapping the open failure.
func SourceUnavailable(path string, err error) *Error {
	return Wrap(CodeSourceUnavailable, fmt.Sprintf("source %q cannot be opened", path), err)
}

// DestinationFailed creates a DESTINATION_FAILED error wrapping the I/O failure.
func DestinationFailed(path string, err error) *Error {
	return Wrap(CodeDestinationFailed, fmt.Sprintf("destination %q cannot be written", path), err)
}

// ArchiveFailed creates an ARCHIVE_FAILED error wrapping the writer failure.
// what names the part being written, e.g. `entry "D/a.txt"` or "central directory".
func ArchiveFailed(what string, err error) *Error {
	return Wrap(CodeArchiveFailed, fmt.Sprintf("failed to write %s", what), err)
}

// UnreadableFile creates an UNREADABLE_FILE error.
func UnreadableFile(path string, err error) *Error {
	return Wrap(CodeUnreadableFile, fmt.Sprintf("file %q cannot be read", path), err)
}

// InvalidMethod creates an INVALID_METHOD error.
func InvalidMethod(name string) *Error {
	return New(CodeInvalidMethod, fmt.Sprintf("unknown compression method %q", name))
}

// InvalidPolicy creates an INVALID_POLICY error.
func InvalidPolicy(name string) *Error {
	return New(CodeInvalidPolicy, fmt.Sprintf("unknown unreadable-file policy %q (want empty, skip or abort)", name))
}

// InvalidConfig creates an INVALID_CONFIG error wrapping the decode or validation failure.
func InvalidConfig(err error) *Error {
	return Wrap(CodeInvalidConfig, "invalid configuration", err)
}

// InvalidEntryName creates an INVALID_ENTRY_NAME error.
func InvalidEntryName(name, reason string) *Error {
	return New(CodeInvalidEntryName, fmt.Sprintf("entry name %q is invalid: %s", name, reason))
}
