package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Yield analysis error codes
const (
	// Source client errors
	CodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"
	CodeMalformedData     Code = "MALFORMED_DATA"

	// Registry errors
	CodeUnknownProtocol Code = "UNKNOWN_PROTOCOL"

	// Breakeven input errors
	CodePoolNotFound  Code = "POOL_NOT_FOUND"
	CodeInvalidAmount Code = "INVALID_AMOUNT"

	// History analysis errors
	CodeInsufficientData Code = "INSUFFICIENT_DATA"

	// Cache errors
	CodeCacheCorrupt Code = "CACHE_CORRUPT"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
