package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PackageStatus enumerates lifecycle states for stored packages.
type PackageStatus string

const (
	PackageStatusPending  PackageStatus = "Pending"
	PackageStatusActive   PackageStatus = "Active"
	PackageStatusInactive PackageStatus = "Inactive"
)

// TelcoServiceBlock bundles mobile entitlements that depend on an MNO agreement.
type TelcoServiceBlock struct {
	Data  string `json:"data"`
	Voice string `json:"voice"`
	SMS   string `json:"sms"`
}

// Complete reports whether all three entitlements are populated.
func (t TelcoServiceBlock) Complete() bool {
	return strings.TrimSpace(t.Data) != "" &&
		strings.TrimSpace(t.Voice) != "" &&
		strings.TrimSpace(t.SMS) != ""
}

// PackageItem is the persisted commercial package aggregate.
type PackageItem struct {
	ID                    string             `json:"id"`
	TicketID              string             `json:"ticket_id"`
	Name                  string             `json:"name"`
	Description           string             `json:"description,omitempty"`
	BaseProduct           Product            `json:"base_product"`
	ComplementaryProducts []Product          `json:"complementary_products"`
	TelcoServices         *TelcoServiceBlock `json:"telco_services,omitempty"`
	Price                 decimal.Decimal    `json:"price"`
	Status                PackageStatus      `json:"status"`
	CreatedAt             time.Time          `json:"created_at"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p *PackageItem) Clone() *PackageItem {
	if p == nil {
		return nil
	}
	out := *p
	out.ComplementaryProducts = append([]Product(nil), p.ComplementaryProducts...)
	if p.TelcoServices != nil {
		telco := *p.TelcoServices
		out.TelcoServices = &telco
	}
	return &out
}

// FormatTicketID renders TICK-{year}-{sequence}, zero-padding the sequence to three digits.
func FormatTicketID(year int, sequence int64) string {
	return fmt.Sprintf("TICK-%d-%03d", year, sequence)
}
