package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error carried from the use cases to the delivery layers
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// UserMessage is the single human-readable line shown by the UI shells
func (e AppError) UserMessage() string {
	if hint, ok := e.Details["hint"]; ok && hint != "" {
		return e.Message + " " + hint
	}
	return e.Message
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrMethodNotAllowed() AppError {
	return AppError{
		HTTPCode: http.StatusMethodNotAllowed,
		Code:     ErrorCode_METHOD_NOT_ALLOWED,
		Message:  "Method Not Allowed",
	}
}

// Configuration Errors
func ErrMissingAPIKey(provider string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_API_KEY,
		Message:  fmt.Sprintf("Missing %s API key. Configure it before starting an analysis.", provider),
	}.WithDetail("provider", provider)
}

func ErrUnknownScenario(scenario string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNKNOWN_SCENARIO,
		Message:  "Unknown analysis scenario",
	}.WithDetail("scenario", scenario)
}

func ErrUnsupportedProvider(provider string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNSUPPORTED_PROVIDER,
		Message:  "Unsupported model provider",
	}.WithDetail("provider", provider)
}

func ErrEmptyTranscript() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_EMPTY_TRANSCRIPT,
		Message:  "Transcript is empty. Paste the conversation first.",
	}
}

// Transport Errors
func ErrUpstreamStatus(provider string, status int, upstreamMessage string, err error) AppError {
	msg := fmt.Sprintf("%s request failed (HTTP %d)", provider, status)
	if upstreamMessage != "" {
		msg = fmt.Sprintf("%s: %s", msg, upstreamMessage)
	}
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_UPSTREAM_STATUS,
		Message:  msg,
	}.WithDetail("provider", provider).
		WithDetail("upstream_status", fmt.Sprintf("%d", status))
}

func ErrInsufficientBalance(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusPaymentRequired,
		Code:     ErrorCode_INSUFFICIENT_BALANCE,
		Message:  fmt.Sprintf("%s account balance is insufficient. Top up on the provider platform.", provider),
	}.WithDetail("provider", provider)
}

func ErrRateLimited(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_RATE_LIMITED,
		Message:  fmt.Sprintf("Too many requests, %s is rate limiting this key.", provider),
	}.WithDetail("provider", provider)
}

func ErrProviderBusy(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_PROVIDER_BUSY,
		Message:  fmt.Sprintf("%s servers are busy, try again later.", provider),
	}.WithDetail("provider", provider)
}

func ErrProviderUnauthorized(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_PROVIDER_UNAUTHORIZED,
		Message:  fmt.Sprintf("%s rejected the API key.", provider),
	}.WithDetail("provider", provider)
}

func ErrProxyRouteMissing(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_PROXY_ROUTE_MISSING,
		Message:  "Proxy endpoint not found (HTTP 404).",
	}.WithDetail("hint", "Check that the API server is running and DEEPSEEK_PROXY_URL points at it.")
}

func ErrUpstreamUnreachable(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_UPSTREAM_UNREACHABLE,
		Message:  fmt.Sprintf("Could not reach %s.", provider),
	}.WithDetail("provider", provider).
		WithDetail("hint", "Check the network or switch to the other engine.")
}

func ErrAnalysisTimeout(budget time.Duration, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_ANALYSIS_TIMEOUT,
		Message:  fmt.Sprintf("Analysis timed out after %s.", budget),
	}.WithDetail("hint", "Shorten the transcript and try again.")
}

func ErrAnalysisInProgress() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ANALYSIS_IN_PROGRESS,
		Message:  "Another analysis is still running.",
	}
}

// Content Errors
func ErrEmptyModelOutput(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_EMPTY_MODEL_OUTPUT,
		Message:  fmt.Sprintf("%s returned no content.", provider),
	}.WithDetail("provider", provider).
		WithDetail("hint", "The model produced an empty reply, please retry.")
}

func ErrMalformedModelOutput(provider string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_MALFORMED_MODEL_OUTPUT,
		Message:  fmt.Sprintf("%s returned a report that is not valid JSON.", provider),
	}.WithDetail("provider", provider).
		WithDetail("hint", "The output was likely truncated, shorten the input and retry.")
}

// Storage Errors
func ErrPreferencesFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PREFERENCES_FAILED,
		Message:  fmt.Sprintf("Preference store operation failed: %s", operation),
	}
}

// HTTPStatusOK represents a successful HTTP response.
func HTTPStatusOK(message string) AppError {
	return AppError{
		HTTPCode: http.StatusOK,
		Code:     ErrorCode_HTTP_OK,
		Message:  message,
	}
}
