package accounts

import (
	"errors"
	"fmt"
	"net/http"
)

// AccountError represents errors related to account operations
type AccountError struct {
	Type      string
	AccountID string
	Message   string
	Cause     error
}

func (e *AccountError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("account error [%s] for account %q: %s (caused by: %v)", e.Type, e.AccountID, e.Message, e.Cause)
	}
	return fmt.Sprintf("account error [%s] for account %q: %s", e.Type, e.AccountID, e.Message)
}

func (e *AccountError) Unwrap() error {
	return e.Cause
}

// Account error types
const (
	AccountErrorTypeValidationFailed = "validation_failed"
	AccountErrorTypeUnauthorized     = "unauthorized"
	AccountErrorTypePermissionDenied = "permission_denied"
	AccountErrorTypeNotFound         = "not_found"
	AccountErrorTypeAlreadyExists    = "already_exists"
)

// NewAccountValidationError creates an error for malformed, oversized or
// missing fields and for attempts to change an immutable field
func NewAccountValidationError(accountID, message string, cause error) *AccountError {
	return &AccountError{
		Type:      AccountErrorTypeValidationFailed,
		AccountID: accountID,
		Message:   message,
		Cause:     cause,
	}
}

// NewAccountAuthError creates an error for missing or invalid credentials
func NewAccountAuthError(accountID string) *AccountError {
	return &AccountError{
		Type:      AccountErrorTypeUnauthorized,
		AccountID: accountID,
		Message:   "authentication failed",
	}
}

// NewAccountPermissionError creates an error for an authenticated caller acting on another account
func NewAccountPermissionError(accountID, message string) *AccountError {
	return &AccountError{
		Type:      AccountErrorTypePermissionDenied,
		AccountID: accountID,
		Message:   message,
	}
}

// NewAccountNotFoundError creates an error for when an account is not found
func NewAccountNotFoundError(accountID string) *AccountError {
	return &AccountError{
		Type:      AccountErrorTypeNotFound,
		AccountID: accountID,
		Message:   "account not found",
	}
}

// NewAccountAlreadyExistsError creates an error for a duplicate id at creation
func NewAccountAlreadyExistsError(accountID string) *AccountError {
	return &AccountError{
		Type:      AccountErrorTypeAlreadyExists,
		AccountID: accountID,
		Message:   "already same id is used",
	}
}

// ErrorType returns the AccountError type carried by err, or "" if there is none
func ErrorType(err error) string {
	var accErr *AccountError
	if errors.As(err, &accErr) {
		return accErr.Type
	}
	return ""
}

// IsErrorType reports whether err is an AccountError of the given type
func IsErrorType(err error, errType string) bool {
	return ErrorType(err) == errType
}

// StatusCode maps an error to the HTTP status code returned to the caller
func StatusCode(err error) int {
	switch ErrorType(err) {
	case AccountErrorTypeValidationFailed, AccountErrorTypeAlreadyExists:
		return http.StatusBadRequest
	case AccountErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case AccountErrorTypePermissionDenied:
		return http.StatusForbidden
	case AccountErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
