// Package composer assembles a commercial package request from catalog
// products and validates it before it reaches the store.
//
// A Composer is caller-local and holds no shared state; it needs no locking.
package composer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/package-service/internal/catalog"
	"github.com/spec-kit/package-service/internal/domain"
)

// Composer accumulates an in-progress package request.
type Composer struct {
	catalog       *catalog.Snapshot
	name          string
	description   string
	price         decimal.Decimal
	baseProductID string
	complementary []string
	telco         *domain.TelcoServiceBlock
}

// New creates a composer reading products from snapshot.
func New(snapshot *catalog.Snapshot) *Composer {
	return &Composer{catalog: snapshot}
}

func (c *Composer) SetName(name string)               { c.name = name }
func (c *Composer) SetPrice(price decimal.Decimal)    { c.price = price }
func (c *Composer) SetDescription(description string) { c.description = description }

// SetTelcoServices stores the provided entitlements as-is. Completeness is
// checked by Submit.
func (c *Composer) SetTelcoServices(block domain.TelcoServiceBlock) {
	c.telco = &block
}

// ClearTelcoServices drops the telecommunications block.
func (c *Composer) ClearTelcoServices() { c.telco = nil }

// BaseProductID returns the currently selected base product, if any.
func (c *Composer) BaseProductID() string { return c.baseProductID }

// ComplementaryProductIDs returns the selected complementary ids in insertion order.
func (c *Composer) ComplementaryProductIDs() []string {
	return append([]string(nil), c.complementary...)
}

// BaseCandidates lists the products eligible as base product.
func (c *Composer) BaseCandidates() []domain.Product {
	return c.catalog.Filter(domain.Product.CanBeBase)
}

// ComplementaryCandidates lists the products that AddComplementaryProduct would accept.
func (c *Composer) ComplementaryCandidates() []domain.Product {
	return c.catalog.Filter(func(p domain.Product) bool {
		return c.complementaryAllowed(p)
	})
}

// SelectBaseProduct sets the base product when it is an Active VAS or OTT
// product. It reports whether the selection was accepted.
func (c *Composer) SelectBaseProduct(productID string) bool {
	p, ok := c.catalog.Lookup(productID)
	if !ok || !p.CanBeBase() {
		return false
	}
	c.baseProductID = productID
	c.RemoveComplementaryProduct(productID)
	return true
}

// AddComplementaryProduct appends an Active product that is neither the base
// product nor already selected. It reports whether the product was added.
func (c *Composer) AddComplementaryProduct(productID string) bool {
	p, ok := c.catalog.Lookup(productID)
	if !ok || !c.complementaryAllowed(p) {
		return false
	}
	c.complementary = append(c.complementary, productID)
	return true
}

// RemoveComplementaryProduct removes productID if present.
func (c *Composer) RemoveComplementaryProduct(productID string) {
	for i, id := range c.complementary {
		if id == productID {
			c.complementary = append(c.complementary[:i], c.complementary[i+1:]...)
			return
		}
	}
}

func (c *Composer) complementaryAllowed(p domain.Product) bool {
	if !p.IsActive() || p.ID == c.baseProductID {
		return false
	}
	for _, id := range c.complementary {
		if id == p.ID {
			return false
		}
	}
	return true
}

// Submit validates the whole request. On success it returns a request ready
// for the store; otherwise a *domain.ValidationError listing every violation.
func (c *Composer) Submit() (ValidatedRequest, error) {
	var violations []domain.Violation

	name := strings.TrimSpace(c.name)
	if name == "" {
		violations = append(violations, domain.ViolationEmptyName)
	}

	base, ok := c.catalog.Lookup(c.baseProductID)
	if !ok || !base.CanBeBase() {
		violations = append(violations, domain.ViolationMissingOrInvalidBaseProduct)
	}

	complementary := make([]domain.Product, 0, len(c.complementary))
	seen := make(map[string]struct{}, len(c.complementary))
	for _, id := range c.complementary {
		p, found := c.catalog.Lookup(id)
		_, dup := seen[id]
		if !found || dup || !p.IsActive() || id == c.baseProductID {
			violations = append(violations, domain.ViolationInvalidComplementaryProduct)
			continue
		}
		seen[id] = struct{}{}
		complementary = append(complementary, p)
	}

	var telco *domain.TelcoServiceBlock
	if c.telco != nil {
		if !c.telco.Complete() {
			violations = append(violations, domain.ViolationIncompleteTelcoServices)
		} else {
			block := domain.TelcoServiceBlock{
				Data:  strings.TrimSpace(c.telco.Data),
				Voice: strings.TrimSpace(c.telco.Voice),
				SMS:   strings.TrimSpace(c.telco.SMS),
			}
			telco = &block
		}
	}

	if !c.price.IsPositive() {
		violations = append(violations, domain.ViolationInvalidPrice)
	}

	if err := domain.NewValidationError(violations); err != nil {
		return ValidatedRequest{}, err
	}

	return ValidatedRequest{
		valid:         true,
		name:          name,
		description:   strings.TrimSpace(c.description),
		price:         c.price,
		baseProduct:   base,
		complementary: complementary,
		telco:         telco,
	}, nil
}
