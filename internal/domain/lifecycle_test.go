package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		current PackageStatus
		next    PackageStatus
		noop    bool
		wantErr bool
	}{
		{name: "pending to active", current: PackageStatusPending, next: PackageStatusActive},
		{name: "pending to inactive", current: PackageStatusPending, next: PackageStatusInactive},
		{name: "active to inactive", current: PackageStatusActive, next: PackageStatusInactive},
		{name: "inactive to active", current: PackageStatusInactive, next: PackageStatusActive},
		{name: "active to active is noop", current: PackageStatusActive, next: PackageStatusActive, noop: true},
		{name: "pending to pending", current: PackageStatusPending, next: PackageStatusPending, wantErr: true},
		{name: "active back to pending", current: PackageStatusActive, next: PackageStatusPending, wantErr: true},
		{name: "unknown target", current: PackageStatusPending, next: PackageStatus("Draft"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noop, err := CheckTransition(tt.current, tt.next)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.noop, noop)
		})
	}
}

func TestValidationErrorOrdersAndDeduplicates(t *testing.T) {
	err := NewValidationError([]Violation{
		ViolationInvalidPrice,
		ViolationEmptyName,
		ViolationInvalidPrice,
		ViolationIncompleteTelcoServices,
	})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, []Violation{
		ViolationEmptyName,
		ViolationIncompleteTelcoServices,
		ViolationInvalidPrice,
	}, verr.Violations)
	assert.NoError(t, NewValidationError(nil))
}

func TestTelcoServiceBlockComplete(t *testing.T) {
	assert.True(t, TelcoServiceBlock{Data: "10GB", Voice: "100 min", SMS: "100"}.Complete())
	assert.False(t, TelcoServiceBlock{Data: "10GB", Voice: "", SMS: "100"}.Complete())
	assert.False(t, TelcoServiceBlock{Data: "10GB", Voice: "  ", SMS: "100"}.Complete())
}
