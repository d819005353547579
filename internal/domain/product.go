package domain

// ProductType enumerates catalog product kinds.
type ProductType string

const (
	ProductTypeVAS   ProductType = "VAS"
	ProductTypeOTT   ProductType = "OTT"
	ProductTypeTelco ProductType = "Telco"
)

// ProductStatus reflects catalog availability.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusInactive ProductStatus = "Inactive"
)

// Product is a catalog entry owned by the catalog collaborator.
type Product struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Provider string        `json:"provider" yaml:"provider"`
	Type     ProductType   `json:"type" yaml:"type"`
	Status   ProductStatus `json:"status" yaml:"status"`
}

// IsActive reports whether the product can be bundled.
func (p Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// CanBeBase reports whether the product may define a package's business logic.
func (p Product) CanBeBase() bool {
	return p.IsActive() && (p.Type == ProductTypeVAS || p.Type == ProductTypeOTT)
}
