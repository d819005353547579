package events

import (
	"time"

	"github.com/spec-kit/package-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPackageCreated       EventType = "package_created"
	EventPackageStatusChanged EventType = "package_status_changed"
	EventPackageDeleted       EventType = "package_deleted"
)

// Actor identifies the operator behind an event.
type Actor struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name,omitempty"`
}

// SystemActor is used when no operator identified themselves.
var SystemActor = Actor{OperatorID: "system"}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PackageID string      `json:"package_id"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PackageCreatedPayload carries the stored record so subscribers can render its ticket.
type PackageCreatedPayload struct {
	Package domain.PackageItem `json:"package"`
}

// PackageStatusChangedPayload payload.
type PackageStatusChangedPayload struct {
	OldStatus domain.PackageStatus `json:"old_status"`
	NewStatus domain.PackageStatus `json:"new_status"`
}

// PackageDeletedPayload payload.
type PackageDeletedPayload struct {
	Name string `json:"name"`
}
