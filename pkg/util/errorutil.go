package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced by the workflow engine.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidAction     = "INVALID_ACTION"
	CodeInvalidParameters = "INVALID_PARAMETERS"
	CodeTooManyShifts     = "TOO_MANY_SHIFTS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeShiftNotFound     = "SHIFT_NOT_FOUND"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeInternalError     = "INTERNAL_SERVER_ERROR"
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

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInvalidRequest(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidRequest, message, http.StatusBadRequest, details)
}

func NewInvalidAction(action string) error {
	return NewDomainError(CodeInvalidAction, fmt.Sprintf("unknown bulk action: %s", action), http.StatusBadRequest, map[string]any{"action": action})
}

func NewInvalidParameters(message string) error {
	return NewDomainError(CodeInvalidParameters, message, http.StatusBadRequest, nil)
}

func NewTooManyShifts(count, max int) error {
	return NewDomainError(CodeTooManyShifts,
		fmt.Sprintf("bulk operations are limited to %d shifts", max),
		http.StatusBadRequest,
		map[string]any{"shift_count": count, "max": max})
}

// NewInvalidTransition carries the attempted pair for diagnostics.
func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition from %s to %s is not allowed", from, to),
		http.StatusConflict,
		map[string]any{"from": from, "to": to})
}

func NewShiftNotFound(shiftID string) error {
	return NewDomainError(CodeShiftNotFound, "shift not found", http.StatusNotFound, map[string]any{"shift_id": shiftID})
}

func NewDatabaseError(err error) error {
	return &DomainError{
		Code:       CodeDatabaseError,
		Message:    "persistence failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
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
		return &DomainError{
			Code:       CodeShiftNotFound,
			Message:    "shift not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	return &DomainError{
		Code:       CodeInternalError,
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
