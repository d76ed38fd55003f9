package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code when the error crosses an HTTP boundary.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrTransformFailed   = &AppError{Code: ErrCodeTransformFailed}
	ErrContractViolation = &AppError{Code: ErrCodeContractViolation}
	ErrProtocolViolation = &AppError{Code: ErrCodeProtocolViolation}
	ErrStreamDisposed    = &AppError{Code: ErrCodeStreamDisposed}
	ErrInvalidInput      = &AppError{Code: ErrCodeInvalidInput}
	ErrTimeout           = &AppError{Code: ErrCodeTimeout}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
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
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Stream constructors ---

// TransformFailed wraps a failure raised by an operator callback.
func TransformFailed(operator string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransformFailed, Message: fmt.Sprintf("%s callback failed", operator),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"operator": operator}, Cause: cause,
	}
}

// TransformPanicked converts a value recovered from a panicking operator callback.
func TransformPanicked(operator string, recovered any) *AppError {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}
	return TransformFailed(operator, cause).WithDetail("panic", true)
}

// UpstreamFailed wraps an error event received from a source.
func UpstreamFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUpstreamFailed, Message: fmt.Sprintf("%s emitted an error", source),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"source": source}, Cause: cause,
	}
}

// StreamDisposed reports that a subscription ended before a terminal event.
func StreamDisposed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeStreamDisposed, Message: "The subscription ended before the stream terminated.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false, Cause: cause,
	}
}

// ContractViolation reports a broken programming contract.
func ContractViolation(invariant string) *AppError {
	return &AppError{
		Code: ErrCodeContractViolation, Message: invariant,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// ProtocolViolation reports an event sequence a stream type does not allow.
func ProtocolViolation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeProtocolViolation, Message: reason,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// --- Common constructors ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Timeout creates a new AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// ServiceUnavailable creates a new AppError for a dependency that cannot be reached.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
