package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"

	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeDatabaseError:      true,
}

// IsRetryableCode reports whether a caller may retry an operation that failed with code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
