// Package errors provides standardized error handling for the HTTP surface and
// for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigurationMissing   ErrorCode = "CONFIGURATION_MISSING"
	ErrCodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeRateLimited            ErrorCode = "RATE_LIMITED"
	ErrCodeCaptchaFailed          ErrorCode = "CAPTCHA_FAILED"
	ErrCodeCallAlreadyScheduled   ErrorCode = "CALL_ALREADY_SCHEDULED"
	ErrCodeDirectoryRequestFailed ErrorCode = "DIRECTORY_REQUEST_FAILED"
	ErrCodeContactAlreadyExists   ErrorCode = "CONTACT_ALREADY_EXISTS"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeWorkflowEngine         ErrorCode = "WORKFLOW_ENGINE_ERROR"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Error categories.
const (
	CategoryConfiguration = "CONFIGURATION"
	CategoryAuthorization = "AUTHORIZATION"
	CategoryRemote        = "REMOTE"
	CategoryConflict      = "CONFLICT"
	CategoryValidation    = "VALIDATION"
	CategoryOther         = "OTHER"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewConfigurationMissingError reports a required setting that is absent.
func NewConfigurationMissingError(setting string) *StandardError {
	return newError(ErrCodeConfigurationMissing, fmt.Sprintf("%s is not configured", setting), "", false, nil)
}

func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "Unauthorized", details, false, nil)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Request validation failed", details, false, nil)
}

func NewRateLimitedError(key string) *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests. Please try again later.", fmt.Sprintf("key: %s", key), true, nil)
}

func NewCaptchaFailedError(details string) *StandardError {
	return newError(ErrCodeCaptchaFailed, "Bot verification failed", details, false, nil)
}

func NewCallAlreadyScheduledError(email string) *StandardError {
	return newError(ErrCodeCallAlreadyScheduled, "A discovery call is already scheduled for this email", "", false, nil).
		WithMetadata("email", email)
}

// NewDirectoryRequestFailedError wraps a failed contact directory call.
func NewDirectoryRequestFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDirectoryRequestFailed, fmt.Sprintf("Directory %s failed", operation), errString(err), true, err)
}

func NewContactAlreadyExistsError(existingID string, err error) *StandardError {
	return newError(ErrCodeContactAlreadyExists, "Contact already exists", fmt.Sprintf("existingId: %s", existingID), false, err)
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s", notificationType), errString(err), true, err)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Failed to save submission", errString(err), true, err)
}

// NewWorkflowEngineError wraps a failed call to the Zeebe gateway.
func NewWorkflowEngineError(operation string, err error, retryable bool) *StandardError {
	return newError(ErrCodeWorkflowEngine, fmt.Sprintf("Zeebe operation '%s' failed", operation), errString(err), retryable, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errString(err), false, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion
// ==========================

// AsStandardError extracts a StandardError from err's chain, wrapping anything
// else as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the status returned by the HTTP surface.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeCaptchaFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeCallAlreadyScheduled, ErrCodeContactAlreadyExists:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Category groups error codes for logging and dashboards.
func Category(code ErrorCode) string {
	switch code {
	case ErrCodeConfigurationMissing:
		return CategoryConfiguration
	case ErrCodeUnauthorized:
		return CategoryAuthorization
	case ErrCodeDirectoryRequestFailed, ErrCodeNotificationSendFailed, ErrCodeDatabaseInsertFailed, ErrCodeWorkflowEngine:
		return CategoryRemote
	case ErrCodeCallAlreadyScheduled, ErrCodeContactAlreadyExists:
		return CategoryConflict
	case ErrCodeValidationFailed, ErrCodeCaptchaFailed, ErrCodeRateLimited:
		return CategoryValidation
	default:
		return CategoryOther
	}
}

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDirectoryRequestFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeWorkflowEngine:
		return 3
	case ErrCodeRateLimited:
		return 1
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"errorCategory":     Category(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}
