package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewPermissionError reports a role-rank or feature-flag violation.
func NewPermissionError(message string) error {
	return NewDomainError("PERMISSION_DENIED", message, http.StatusForbidden, nil)
}

// NewDuplicate reports a case-insensitive name collision.
func NewDuplicate(resource, name string) error {
	return NewDomainError("DUPLICATE", fmt.Sprintf("%s %q already exists", resource, name),
		http.StatusConflict, map[string]any{"name": name})
}

// NewNonZeroBalance blocks a destructive mutation while a balance is outstanding.
func NewNonZeroBalance(message string, balance float64) error {
	return NewDomainError("NON_ZERO_BALANCE", message, http.StatusConflict,
		map[string]any{"balance": balance})
}

// NewBankInUse blocks bank deletion while users hold balances under it.
func NewBankInUse(bank string, details map[string]any) error {
	return NewDomainError("BANK_IN_USE", fmt.Sprintf("bank %q has outstanding user balances", bank),
		http.StatusConflict, details)
}

// NewSelfOperation rejects mutations an actor aims at its own account.
func NewSelfOperation(message string) error {
	return NewDomainError("SELF_OPERATION", message, http.StatusForbidden, nil)
}

// NewConflict reports an optimistic-concurrency mismatch.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewPersistenceError wraps an opaque storage failure without reinterpretation.
func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       "PERSISTENCE_ERROR",
		Message:    "storage operation failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewPersistenceError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
