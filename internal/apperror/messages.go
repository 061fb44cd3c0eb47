package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Source client errors
	CodeSourceUnavailable: "Yield data source is unavailable",
	CodeMalformedData:     "Yield data source returned an unexpected shape",

	// Registry errors
	CodeUnknownProtocol: "Protocol is not on the whitelist",

	// Breakeven input errors
	CodePoolNotFound:  "Pool not found in the latest scan",
	CodeInvalidAmount: "Amount must be greater than zero",

	// History analysis errors
	CodeInsufficientData: "Not enough historical data points",

	// Cache errors
	CodeCacheCorrupt: "Cache file is corrupt and was ignored",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
