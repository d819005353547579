package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/package-service/internal/domain"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", domain.NewValidationError([]domain.Violation{domain.ViolationInvalidPrice}), "VALIDATION_FAILED", http.StatusBadRequest},
		{"bare validation sentinel", fmt.Errorf("%w: not submitted", domain.ErrValidation), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", fmt.Errorf("lookup: %w", domain.ErrNotFound), "NOT_FOUND", http.StatusNotFound},
		{"transition", fmt.Errorf("%w: Active -> Pending", domain.ErrInvalidTransition), "INVALID_TRANSITION", http.StatusConflict},
		{"conflict", domain.ErrConflict, "CONFLICT", http.StatusConflict},
		{"already mapped", NewUnauthorized("bad token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}
}

func TestToDomainErrorListsViolations(t *testing.T) {
	err := domain.NewValidationError([]domain.Violation{
		domain.ViolationInvalidPrice,
		domain.ViolationEmptyName,
	})
	got := ToDomainError(err)
	assert.Equal(t, []string{"EmptyName", "InvalidPrice"}, got.Details["violations"])
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("store package: %w", domain.ErrConflict)
	got := ToDomainError(cause)
	assert.Equal(t, "package already exists", got.Message)
	assert.ErrorIs(t, got, domain.ErrConflict)

	notFound := ToDomainError(domain.ErrNotFound)
	assert.Equal(t, "package not found", notFound.Message)
	assert.Equal(t, map[string]any{}, notFound.Details)
}
