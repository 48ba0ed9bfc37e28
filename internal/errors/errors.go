// Package errors defines the service error taxonomy used across the gateway.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the gateway taxonomy.
const (
	CodeConfiguration  = "CONFIGURATION_ERROR"
	CodeConnection     = "CONNECTION_ERROR"
	CodeNotInitialized = "NOT_INITIALIZED"
	CodeValidation     = "VALIDATION_ERROR"
	CodeOperation      = "OPERATION_ERROR"
)

// ServiceError is the uniform error carried through the gateway. Details holds
// the underlying failure message verbatim; it is surfaced to callers unchanged.
type ServiceError struct {
	Code       string
	Message    string
	Details    string
	HTTPStatus int
}

func (e *ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Configuration reports missing or invalid configuration. Fatal to initialize;
// never retried.
func Configuration(message string) *ServiceError {
	return &ServiceError{
		Code:       CodeConfiguration,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Connection reports an unreachable external endpoint. Retryable via re-init.
func Connection(message string, cause error) *ServiceError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &ServiceError{
		Code:       CodeConnection,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrNotInitialized is returned by the accessor before the first successful
// initialize, or after invalidation. Handlers recover it with exactly one
// re-init attempt.
var ErrNotInitialized = &ServiceError{
	Code:       CodeNotInitialized,
	Message:    "contract client is not initialized",
	HTTPStatus: http.StatusInternalServerError,
}

// Validation reports malformed caller input. The external resource is never
// invoked for these.
func Validation(message string) *ServiceError {
	return &ServiceError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Operation reports a failed external call. The underlying failure message is
// kept verbatim in Details.
func Operation(message string, cause error) *ServiceError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &ServiceError{
		Code:       CodeOperation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsNotInitialized reports whether err is the accessor's not-initialized state.
func IsNotInitialized(err error) bool {
	var svc *ServiceError
	if errors.As(err, &svc) {
		return svc.Code == CodeNotInitialized
	}
	return false
}

// From coerces any error into a ServiceError. Unknown errors become operation
// errors so a caller always receives a classified failure.
func From(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var svc *ServiceError
	if errors.As(err, &svc) {
		return svc
	}
	return Operation("operation failed", err)
}
