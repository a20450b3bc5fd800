package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Domain errors for the financial record lifecycle
var (
	ErrEmptyWaybillSet = &AppError{Code: http.StatusBadRequest, Message: "At least one waybill is required"}
	ErrInvalidRatio    = &AppError{Code: http.StatusUnprocessableEntity, Message: "Profit share ratio must be between 0 and 100"}

	ErrDuplicateSettlement  = &AppError{Code: http.StatusConflict, Message: "A settlement already exists for this driver and month"}
	ErrDuplicateSplitTarget = &AppError{Code: http.StatusConflict, Message: "This driver already has a fee split on the waybill"}
	ErrPaymentNotesRequired = &AppError{Code: http.StatusUnprocessableEntity, Message: "Payment notes are required when recording a cash tax payment"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInvalidTransitionError reports an illegal status transition. The offending
// (from, to) pair is carried in the message so the caller can surface it.
func NewInvalidTransitionError(entity, from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Invalid %s status transition from %s to %s", entity, from, to),
	}
}

// NewWaybillNotInvoiceableError reports waybills that are not in the state the
// caller's operation requires.
func NewWaybillNotInvoiceableError(ids []string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Waybills not available for invoicing: %v", ids),
	}
}

// NewWaybillNoLongerAvailableError reports waybills that were reassigned
// elsewhere between a void and a restore.
func NewWaybillNoLongerAvailableError(ids []string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Waybills no longer available: %v", ids),
	}
}

// NewSplitExceedsFeeError reports a fee split that would push the waybill's
// total split amount past its fee.
func NewSplitExceedsFeeError(fee, allocated, requested float64) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Split of %.2f exceeds waybill fee %.2f (already allocated %.2f)", requested, fee, allocated),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
