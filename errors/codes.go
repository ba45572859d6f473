package errors

// ErrorCode identifies an application error in API responses.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL           ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT   ErrorCode = 1001
	ErrorCode_NOT_FOUND          ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD    ErrorCode = 1003
	ErrorCode_METHOD_NOT_ALLOWED ErrorCode = 1004

	// Configuration
	ErrorCode_MISSING_API_KEY      ErrorCode = 2000
	ErrorCode_UNKNOWN_SCENARIO     ErrorCode = 2001
	ErrorCode_UNSUPPORTED_PROVIDER ErrorCode = 2002
	ErrorCode_EMPTY_TRANSCRIPT     ErrorCode = 2003

	// Transport
	ErrorCode_UPSTREAM_STATUS       ErrorCode = 3000
	ErrorCode_INSUFFICIENT_BALANCE  ErrorCode = 3001
	ErrorCode_RATE_LIMITED          ErrorCode = 3002
	ErrorCode_PROVIDER_BUSY         ErrorCode = 3003
	ErrorCode_PROXY_ROUTE_MISSING   ErrorCode = 3004
	ErrorCode_ANALYSIS_TIMEOUT      ErrorCode = 3005
	ErrorCode_UPSTREAM_UNREACHABLE  ErrorCode = 3006
	ErrorCode_ANALYSIS_IN_PROGRESS  ErrorCode = 3007
	ErrorCode_PROVIDER_UNAUTHORIZED ErrorCode = 3008

	// Content
	ErrorCode_EMPTY_MODEL_OUTPUT     ErrorCode = 4000
	ErrorCode_MALFORMED_MODEL_OUTPUT ErrorCode = 4001

	// Storage
	ErrorCode_PREFERENCES_FAILED ErrorCode = 5000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:            "UNSPECIFIED",
	ErrorCode_HTTP_OK:                "HTTP_OK",
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:       "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:        "INVALID_PAYLOAD",
	ErrorCode_METHOD_NOT_ALLOWED:     "METHOD_NOT_ALLOWED",
	ErrorCode_MISSING_API_KEY:        "MISSING_API_KEY",
	ErrorCode_UNKNOWN_SCENARIO:       "UNKNOWN_SCENARIO",
	ErrorCode_UNSUPPORTED_PROVIDER:   "UNSUPPORTED_PROVIDER",
	ErrorCode_EMPTY_TRANSCRIPT:       "EMPTY_TRANSCRIPT",
	ErrorCode_UPSTREAM_STATUS:        "UPSTREAM_STATUS",
	ErrorCode_INSUFFICIENT_BALANCE:   "INSUFFICIENT_BALANCE",
	ErrorCode_RATE_LIMITED:           "RATE_LIMITED",
	ErrorCode_PROVIDER_BUSY:          "PROVIDER_BUSY",
	ErrorCode_PROXY_ROUTE_MISSING:    "PROXY_ROUTE_MISSING",
	ErrorCode_ANALYSIS_TIMEOUT:       "ANALYSIS_TIMEOUT",
	ErrorCode_UPSTREAM_UNREACHABLE:   "UPSTREAM_UNREACHABLE",
	ErrorCode_ANALYSIS_IN_PROGRESS:   "ANALYSIS_IN_PROGRESS",
	ErrorCode_PROVIDER_UNAUTHORIZED:  "PROVIDER_UNAUTHORIZED",
	ErrorCode_EMPTY_MODEL_OUTPUT:     "EMPTY_MODEL_OUTPUT",
	ErrorCode_MALFORMED_MODEL_OUTPUT: "MALFORMED_MODEL_OUTPUT",
	ErrorCode_PREFERENCES_FAILED:     "PREFERENCES_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}
