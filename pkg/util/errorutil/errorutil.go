package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/package-service/internal/domain"
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

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError("INVALID_TRANSITION", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts package errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		violations := make([]string, len(validation.Violations))
		for i, v := range validation.Violations {
			violations[i] = string(v)
		}
		return NewDomainError("VALIDATION_FAILED", "package request is invalid", http.StatusBadRequest,
			map[string]any{"violations": violations})
	case errors.Is(err, domain.ErrValidation):
		return NewDomainError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		domainErr = NewNotFound("package", nil).(*DomainError)
	case errors.Is(err, domain.ErrInvalidTransition):
		domainErr = NewInvalidTransition(err.Error(), nil).(*DomainError)
	case errors.Is(err, domain.ErrConflict):
		domainErr = NewConflict("package already exists", nil).(*DomainError)
	default:
		domainErr = NewInternalError(nil).(*DomainError)
	}
	domainErr.Err = err
	return domainErr
}
