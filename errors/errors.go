// Package errors provides the structured error type shared by every stage of
// a feed run. Each AppError carries a machine-readable code so the
// orchestrator can tell a warehouse outage from a malformed record or a
// rejected upload without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if rerunning the job could succeed.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// SourceUnavailable creates an error for a warehouse that cannot be reached or queried.
func SourceUnavailable(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceUnavailable, Message: fmt.Sprintf("Data warehouse unavailable during %s.", operation),
		Retryable: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// RecordShape creates an error for a record missing a field its layout requires.
func RecordShape(element, field string) *AppError {
	return &AppError{
		Code: ErrCodeRecordShape, Message: fmt.Sprintf("Record for <%s> is missing required field %s.", element, field),
		Retryable: false, Details: map[string]any{"element": element, "field": field},
	}
}

// TransferFailed creates a generic transfer error.
func TransferFailed(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransferFailed, Message: fmt.Sprintf("Transfer via %s failed.", provider),
		Retryable: true, Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// TransferAuth creates an error for rejected transfer credentials.
func TransferAuth(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransferAuth, Message: fmt.Sprintf("Authentication with %s was rejected.", provider),
		Retryable: false, Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// TransferConnection creates an error for a transfer endpoint that cannot be reached.
func TransferConnection(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransferConnection, Message: fmt.Sprintf("Unable to connect to %s.", provider),
		Retryable: true, Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// TransferTimeout creates an error for a transfer that timed out.
func TransferTimeout(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransferTimeout, Message: fmt.Sprintf("Transfer via %s timed out.", provider),
		Retryable: true, Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// PipeFailure creates an error for a delivery pipe that broke underneath both sides.
func PipeFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodePipeFailure, Message: "Delivery pipe failed.",
		Retryable: true, Cause: cause,
	}
}

// PreflightFailed creates an error for a failed connection test. collaborator
// is "source" or "sink".
func PreflightFailed(collaborator string, cause error) *AppError {
	return &AppError{
		Code: ErrCodePreflightFailed, Message: fmt.Sprintf("Connection test for %s failed.", collaborator),
		Retryable: IsRetryableCode(CodeOf(cause)), Details: map[string]any{"collaborator": collaborator}, Cause: cause,
	}
}

// ConfigInvalid creates an error for an unusable run configuration.
func ConfigInvalid(message string) *AppError {
	return &AppError{Code: ErrCodeConfigInvalid, Message: message, Retryable: false}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost AppError in err's chain, or ""
// when there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether any AppError in err's chain carries code.
// Joined errors are searched as well.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Code == code {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return HasCode(x.Unwrap(), code)
	}
	return false
}
