package composer

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/package-service/internal/domain"
)

// ValidatedRequest is a package request that passed Submit. Its fields are
// unexported so it can only be produced by a successful Submit.
type ValidatedRequest struct {
	valid         bool
	name          string
	description   string
	price         decimal.Decimal
	baseProduct   domain.Product
	complementary []domain.Product
	telco         *domain.TelcoServiceBlock
}

// Valid reports whether the request came from a successful Submit.
func (r ValidatedRequest) Valid() bool { return r.valid }

// Name returns the trimmed package name.
func (r ValidatedRequest) Name() string { return r.name }

// Description returns the optional description.
func (r ValidatedRequest) Description() string { return r.description }

// Price returns the package price.
func (r ValidatedRequest) Price() decimal.Decimal { return r.price }

// BaseProduct returns the base product as seen at submission.
func (r ValidatedRequest) BaseProduct() domain.Product { return r.baseProduct }

// ComplementaryProducts returns complementary products in insertion order.
func (r ValidatedRequest) ComplementaryProducts() []domain.Product {
	return append([]domain.Product(nil), r.complementary...)
}

// TelcoServices returns the telecommunications block, or nil.
func (r ValidatedRequest) TelcoServices() *domain.TelcoServiceBlock {
	if r.telco == nil {
		return nil
	}
	block := *r.telco
	return &block
}

// NewPackageItem projects the request into an unsaved package. Store-assigned
// fields (id, ticket id, status, creation time) are left empty.
func (r ValidatedRequest) NewPackageItem() *domain.PackageItem {
	return &domain.PackageItem{
		Name:                  r.name,
		Description:           r.description,
		BaseProduct:           r.baseProduct,
		ComplementaryProducts: r.ComplementaryProducts(),
		TelcoServices:         r.TelcoServices(),
		Price:                 r.price,
	}
}
