package composer

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/package-service/internal/catalog"
	"github.com/spec-kit/package-service/internal/domain"
)

// Draft is a complete package form submitted in one call.
type Draft struct {
	Name                    string
	BaseProductID           string
	ComplementaryProductIDs []string
	TelcoServices           *domain.TelcoServiceBlock
	Price                   decimal.Decimal
	Description             string
}

// FromDraft replays a draft through a new Composer and submits it. Unlike the
// interactive AddComplementaryProduct, a complementary id the composer refuses
// is reported as a violation instead of being dropped silently.
func FromDraft(snapshot *catalog.Snapshot, draft Draft) (ValidatedRequest, error) {
	c := New(snapshot)
	c.SetName(draft.Name)
	c.SetPrice(draft.Price)
	c.SetDescription(draft.Description)
	c.SelectBaseProduct(draft.BaseProductID)
	if draft.TelcoServices != nil {
		c.SetTelcoServices(*draft.TelcoServices)
	}

	var rejected []domain.Violation
	for _, id := range draft.ComplementaryProductIDs {
		if !c.AddComplementaryProduct(id) {
			rejected = append(rejected, domain.ViolationInvalidComplementaryProduct)
		}
	}

	req, err := c.Submit()
	if len(rejected) == 0 {
		return req, err
	}
	if verr, ok := err.(*domain.ValidationError); ok {
		rejected = append(rejected, verr.Violations...)
	}
	return ValidatedRequest{}, domain.NewValidationError(rejected)
}
