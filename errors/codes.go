package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Record source errors
const (
	// ErrCodeSourceUnavailable indicates the data warehouse could not be reached or queried.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
)

// Serialization errors
const (
	// ErrCodeRecordShape indicates a record lacks a field required by the feed layout.
	ErrCodeRecordShape ErrorCode = "RECORD_SHAPE"
)

// Transfer errors
const (
	// ErrCodeTransferFailed indicates the transfer sink rejected or aborted the upload.
	ErrCodeTransferFailed ErrorCode = "TRANSFER_FAILED"
	// ErrCodeTransferAuth indicates the transfer sink refused the credentials.
	ErrCodeTransferAuth ErrorCode = "TRANSFER_AUTH"
	// ErrCodeTransferConnection indicates the transfer sink could not be reached.
	ErrCodeTransferConnection ErrorCode = "TRANSFER_CONNECTION"
	// ErrCodeTransferTimeout indicates the transfer sink timed out.
	ErrCodeTransferTimeout ErrorCode = "TRANSFER_TIMEOUT"
)

// Run errors
const (
	// ErrCodePipeFailure indicates the delivery pipe itself broke while one side was blocked.
	ErrCodePipeFailure ErrorCode = "PIPE_FAILURE"
	// ErrCodePreflightFailed indicates a connection test failed before any data moved.
	ErrCodePreflightFailed ErrorCode = "PREFLIGHT_FAILED"
	// ErrCodeConfigInvalid indicates the run configuration is incomplete or malformed.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Nothing is retried inside a run; this only tells the scheduler whether
// running the job again could plausibly succeed.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceUnavailable:  true,
	ErrCodeTransferConnection: true,
	ErrCodeTransferTimeout:    true,
	ErrCodeTransferFailed:     true,
	ErrCodePipeFailure:        true,
	ErrCodeRecordShape:        false,
	ErrCodeTransferAuth:       false,
	ErrCodeConfigInvalid:      false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsTransferCode reports whether code belongs to the transfer error family.
func IsTransferCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransferFailed, ErrCodeTransferAuth, ErrCodeTransferConnection, ErrCodeTransferTimeout:
		return true
	}
	return false
}
