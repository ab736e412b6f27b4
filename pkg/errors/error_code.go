package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidStrike        ErrorCode = 102
	ErrCodeInvalidOptionType    ErrorCode = 103
	ErrCodeInvalidIdentifier    ErrorCode = 104
	ErrCodeInvalidYear          ErrorCode = 105
	ErrCodeInvalidMargin        ErrorCode = 106
	ErrCodeMissingParameter     ErrorCode = 107

	// Data errors (200-299)
	ErrCodeInsufficientBaselineData ErrorCode = 201

	// Cache errors (300-399)
	ErrCodeCacheReadFailed     ErrorCode = 300
	ErrCodeCacheWriteFailed    ErrorCode = 301
	ErrCodeCacheLayoutMismatch ErrorCode = 302

	// Market data errors (400-499)
	ErrCodeInvalidProvider ErrorCode = 402
)
