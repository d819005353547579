package domain

import "fmt"

// allowedTransitions lists reachable targets per status. Pending is never a target.
var allowedTransitions = map[PackageStatus][]PackageStatus{
	PackageStatusPending:  {PackageStatusActive, PackageStatusInactive},
	PackageStatusActive:   {PackageStatusInactive},
	PackageStatusInactive: {PackageStatusActive},
}

// ValidTarget reports whether status may be requested by an approver.
func ValidTarget(status PackageStatus) bool {
	return status == PackageStatusActive || status == PackageStatusInactive
}

// CheckTransition validates moving from current to next. It returns noop=true when
// next equals current and next is a valid target.
func CheckTransition(current, next PackageStatus) (noop bool, err error) {
	if !ValidTarget(next) {
		return false, fmt.Errorf("%w: %q is not a valid target status", ErrInvalidTransition, next)
	}
	if current == next {
		return true, nil
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
}
