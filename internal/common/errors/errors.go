// internal/common/errors/errors.go

// Package errors provides standardized error handling for the onboarding
// pipeline. Internal codes never reach the request boundary; the router
// renders generic pages and only these structured values are logged.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Intake: a submission missing its required email is dropped silently.
	ErrCodeValidationRejected ErrorCode = "VALIDATION_REJECTED"

	// Verification: token mismatch and already-verified replay collapse to
	// one code so the boundary cannot disclose which check failed.
	ErrCodeInvalidOrExpiredToken ErrorCode = "INVALID_OR_EXPIRED_TOKEN"

	// Confirm actions: unknown email and known-email-wrong-stage collapse to
	// one code for the same reason.
	ErrCodeNoMatchingApplicant ErrorCode = "NO_MATCHING_APPLICANT_IN_REQUIRED_STAGE"

	ErrCodeStoreFailure           ErrorCode = "STORE_FAILURE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationRejectedError records a dropped intake submission.
func NewValidationRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationRejected,
		Message:   "Submission rejected by intake validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTokenError creates a non-retryable verification error.
func NewInvalidTokenError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidOrExpiredToken,
		Message:   "Verification token invalid or no longer pending",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoMatchingApplicantError creates a non-retryable confirmation error.
func NewNoMatchingApplicantError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoMatchingApplicant,
		Message:   "No applicant matched in the required stage",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreFailureError creates a retryable record-store error.
func NewStoreFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreFailure,
		Message:   "Record store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification delivery error. The
// preceding state mutation is never rolled back; the failure is logged and
// counted, not retried.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Outbound notification send failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// WithMetadata attaches contextual metadata to the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
