package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = New(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = New(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation = New(ErrCodeInvalidOperation, "invalid operation")
	ErrDatabase         = New(ErrCodeDatabase, "database error")
	ErrSystem           = New(ErrCodeSystemError, "system error")

	// Subscription lifecycle error types
	ErrInvalidTransition         = New(ErrCodeInvalidTransition, "invalid subscription state transition")
	ErrAlreadyCancelled          = New(ErrCodeAlreadyCancelled, "subscription already cancelled")
	ErrReactivationWindowExpired = New(ErrCodeReactivationWindowExpired, "reactivation window expired")
	ErrInsufficientBalance       = New(ErrCodeInsufficientBalance, "insufficient wallet balance")
	ErrInvalidDuration           = New(ErrCodeInvalidDuration, "invalid plan duration")
	ErrInvariantViolation        = New(ErrCodeInvariantViolation, "invariant violation")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrDatabase:                  http.StatusInternalServerError,
		ErrNotFound:                  http.StatusNotFound,
		ErrAlreadyExists:             http.StatusConflict,
		ErrValidation:                http.StatusBadRequest,
		ErrInvalidOperation:          http.StatusBadRequest,
		ErrSystem:                    http.StatusInternalServerError,
		ErrInvalidTransition:         http.StatusConflict,
		ErrAlreadyCancelled:          http.StatusConflict,
		ErrReactivationWindowExpired: http.StatusGone,
		ErrInsufficientBalance:       http.StatusPaymentRequired,
		ErrInvalidDuration:           http.StatusBadRequest,
		ErrInvariantViolation:        http.StatusBadRequest,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeDatabase         = "database_error"

	ErrCodeInvalidTransition         = "invalid_transition"
	ErrCodeAlreadyCancelled          = "already_cancelled"
	ErrCodeReactivationWindowExpired = "reactivation_window_expired"
	ErrCodeInsufficientBalance       = "insufficient_balance"
	ErrCodeInvalidDuration           = "invalid_duration"
	ErrCodeInvariantViolation        = "invariant_violation"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidTransition checks if an error is an invalid transition error
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsAlreadyCancelled checks if an error is an already cancelled error
func IsAlreadyCancelled(err error) bool {
	return errors.Is(err, ErrAlreadyCancelled)
}

// IsInsufficientBalance checks if an error is an insufficient balance error
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsReactivationWindowExpired checks if an error is a reactivation window expired error
func IsReactivationWindowExpired(err error) bool {
	return errors.Is(err, ErrReactivationWindowExpired)
}

// IsInvariantViolation checks if an error is an invariant violation error
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
