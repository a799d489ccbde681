package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Graph validation errors (100-199)
	ErrCodeMissingNodeRole  ErrorCode = 100
	ErrCodeDuplicateRole    ErrorCode = 101
	ErrCodeMissingEdge      ErrorCode = 102
	ErrCodeMisdirectedEdge  ErrorCode = 103
	ErrCodeInvalidPayload   ErrorCode = 104
	ErrCodeInvalidPeriod    ErrorCode = 105
	ErrCodeInvalidThreshold ErrorCode = 106

	// Data errors (200-299)
	ErrCodeDataUnavailable  ErrorCode = 200
	ErrCodeInsufficientData ErrorCode = 201

	// Indicator errors (300-399)
	ErrCodeUnsupportedIndicator   ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Decision errors (400-499)
	ErrCodeInvalidOperator ErrorCode = 400

	// Market data errors (700-799)
	ErrCodeAuthenticationFailed  ErrorCode = 700
	ErrCodeNetworkFailure        ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
	ErrCodeInvalidInterval       ErrorCode = 704
)
