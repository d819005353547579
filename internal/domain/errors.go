package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflicting write")
	ErrValidation        = errors.New("package request invalid")
)

// Violation names a broken package rule.
type Violation string

const (
	ViolationEmptyName                   Violation = "EmptyName"
	ViolationMissingOrInvalidBaseProduct Violation = "MissingOrInvalidBaseProduct"
	ViolationInvalidComplementaryProduct Violation = "DuplicateOrInvalidComplementaryProduct"
	ViolationIncompleteTelcoServices     Violation = "IncompleteTelcoServices"
	ViolationInvalidPrice                Violation = "InvalidPrice"
)

// violationOrder fixes the reporting order so results are deterministic.
var violationOrder = []Violation{
	ViolationEmptyName,
	ViolationMissingOrInvalidBaseProduct,
	ViolationInvalidComplementaryProduct,
	ViolationIncompleteTelcoServices,
	ViolationInvalidPrice,
}

// OrderViolations de-duplicates and sorts violations into reporting order.
func OrderViolations(in []Violation) []Violation {
	seen := make(map[Violation]struct{}, len(in))
	for _, v := range in {
		seen[v] = struct{}{}
	}
	out := make([]Violation, 0, len(seen))
	for _, v := range violationOrder {
		if _, ok := seen[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ValidationError reports every rule a package request breaks.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = string(v)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns nil when there is nothing to report.
func NewValidationError(violations []Violation) error {
	ordered := OrderViolations(violations)
	if len(ordered) == 0 {
		return nil
	}
	return &ValidationError{Violations: ordered}
}
