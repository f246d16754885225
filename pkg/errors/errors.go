// Package errors provides structured error types for racktower.
//
// Every rejected layout operation is reported as an *Error carrying a
// machine-readable [Code]. Callers (the CLI, the HTTP shell) switch on the
// code to decide how to present the rejection; the engine state is never
// modified when one of these is returned.
//
// # Error Codes
//
// Codes follow the naming convention of the rest of the tool:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: unknown instance or module
//   - *_DECLINED: a destructive action was not confirmed
//   - placement rejections: MISALIGNED_PLACEMENT, OUT_OF_BOUNDS, SPACE_OCCUPIED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfBounds, "module %s does not fit at slot %d", id, idx)
//	if errors.Is(err, errors.ErrCodeOutOfBounds) {
//	    // highlight the drop target red
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidState, origErr, "decode %s", path)
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
	ErrCodeInvalidHeight Code = "INVALID_HEIGHT"
	ErrCodeInvalidWidth  Code = "INVALID_WIDTH"
	ErrCodeInvalidModule Code = "INVALID_MODULE"
	ErrCodeInvalidState  Code = "INVALID_STATE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Placement rejections
	ErrCodeMisalignedPlacement Code = "MISALIGNED_PLACEMENT"
	ErrCodeOutOfBounds         Code = "OUT_OF_BOUNDS"
	ErrCodeSpaceOccupied       Code = "SPACE_OCCUPIED"

	// Destructive actions that were not confirmed
	ErrCodeDestructiveResizeDeclined Code = "DESTRUCTIVE_RESIZE_DECLINED"
	ErrCodeClearDeclined             Code = "CLEAR_DECLINED"

	// Resource errors
	ErrCodeInstanceNotFound Code = "INSTANCE_NOT_FOUND"
	ErrCodeModuleNotFound   Code = "MODULE_NOT_FOUND"
	ErrCodeModuleInUse      Code = "MODULE_IN_USE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
	Details []string
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

// WithDetails attaches extra lines (for example the instances a resize would
// remove) and returns e.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
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

// GetDetails returns the detail lines of the first *Error in the chain.
func GetDetails(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
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

// IsPlacement reports whether err is one of the placement rejections a UI
// renders as drop-target feedback.
func IsPlacement(err error) bool {
	switch GetCode(err) {
	case ErrCodeMisalignedPlacement, ErrCodeOutOfBounds, ErrCodeSpaceOccupied:
		return true
	}
	return false
}

// IsDeclined reports whether err signals an unconfirmed destructive action.
func IsDeclined(err error) bool {
	switch GetCode(err) {
	case ErrCodeDestructiveResizeDeclined, ErrCodeClearDeclined:
		return true
	}
	return false
}
