package composer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-service/internal/catalog"
	"github.com/spec-kit/package-service/internal/domain"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]domain.Product{
		{ID: "ott-1", Name: "Netflix Premium", Provider: "Netflix", Type: domain.ProductTypeOTT, Status: domain.ProductStatusActive},
		{ID: "vas-1", Name: "Antivirus", Provider: "McAfee", Type: domain.ProductTypeVAS, Status: domain.ProductStatusActive},
		{ID: "vas-off", Name: "Cloud 100GB", Provider: "Google", Type: domain.ProductTypeVAS, Status: domain.ProductStatusInactive},
		{ID: "telco-1", Name: "Roaming Pack", Provider: "Claro", Type: domain.ProductTypeTelco, Status: domain.ProductStatusActive},
		{ID: "ott-2", Name: "Disney+", Provider: "Disney", Type: domain.ProductTypeOTT, Status: domain.ProductStatusActive},
	})
}

func violationsOf(t *testing.T, err error) []domain.Violation {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Violations
}

func TestSubmitValidRequest(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("  Bundle A ")
	c.SetPrice(decimal.RequireFromString("9.99"))
	require.True(t, c.SelectBaseProduct("ott-1"))
	require.True(t, c.AddComplementaryProduct("vas-1"))
	require.True(t, c.AddComplementaryProduct("telco-1"))

	req, err := c.Submit()
	require.NoError(t, err)
	assert.True(t, req.Valid())
	assert.Equal(t, "Bundle A", req.Name())
	assert.Equal(t, "ott-1", req.BaseProduct().ID)
	require.Len(t, req.ComplementaryProducts(), 2)
	assert.Equal(t, "vas-1", req.ComplementaryProducts()[0].ID)
	assert.Equal(t, "telco-1", req.ComplementaryProducts()[1].ID)
	assert.Nil(t, req.TelcoServices())
}

func TestSelectBaseProductRejectsIneligible(t *testing.T) {
	c := New(testSnapshot())

	assert.False(t, c.SelectBaseProduct("telco-1"))
	assert.False(t, c.SelectBaseProduct("vas-off"))
	assert.False(t, c.SelectBaseProduct("missing"))
	assert.Empty(t, c.BaseProductID())

	ids := make([]string, 0)
	for _, p := range c.BaseCandidates() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"ott-1", "vas-1", "ott-2"}, ids)
}

func TestSelectBaseProductRemovesItFromComplementary(t *testing.T) {
	c := New(testSnapshot())
	require.True(t, c.AddComplementaryProduct("ott-2"))
	require.True(t, c.SelectBaseProduct("ott-2"))
	assert.Empty(t, c.ComplementaryProductIDs())
}

func TestAddComplementaryProductRejections(t *testing.T) {
	c := New(testSnapshot())
	require.True(t, c.SelectBaseProduct("ott-1"))

	assert.False(t, c.AddComplementaryProduct("ott-1"), "base product")
	assert.False(t, c.AddComplementaryProduct("vas-off"), "inactive")
	assert.False(t, c.AddComplementaryProduct("missing"), "unknown")
	assert.True(t, c.AddComplementaryProduct("vas-1"))
	assert.False(t, c.AddComplementaryProduct("vas-1"), "duplicate")
	assert.Equal(t, []string{"vas-1"}, c.ComplementaryProductIDs())

	ids := make([]string, 0)
	for _, p := range c.ComplementaryCandidates() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"telco-1", "ott-2"}, ids)
}

func TestRejectedAddDoesNotAffectSubmit(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("Bundle C")
	c.SetPrice(decimal.NewFromInt(5))
	require.True(t, c.SelectBaseProduct("ott-1"))

	assert.False(t, c.AddComplementaryProduct("ott-1"))

	req, err := c.Submit()
	require.NoError(t, err)
	assert.Empty(t, req.ComplementaryProducts())
}

func TestRemoveComplementaryProduct(t *testing.T) {
	c := New(testSnapshot())
	require.True(t, c.AddComplementaryProduct("vas-1"))
	require.True(t, c.AddComplementaryProduct("ott-2"))

	c.RemoveComplementaryProduct("vas-1")
	c.RemoveComplementaryProduct("not-there")
	assert.Equal(t, []string{"ott-2"}, c.ComplementaryProductIDs())
}

func TestSubmitIncompleteTelcoServices(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("Bundle B")
	c.SetPrice(decimal.NewFromInt(10))
	require.True(t, c.SelectBaseProduct("vas-1"))
	c.SetTelcoServices(domain.TelcoServiceBlock{Data: "10GB", Voice: "", SMS: "100"})

	_, err := c.Submit()
	assert.Equal(t, []domain.Violation{domain.ViolationIncompleteTelcoServices}, violationsOf(t, err))

	c.ClearTelcoServices()
	_, err = c.Submit()
	assert.NoError(t, err)
}

func TestSubmitReportsEveryViolationInOrder(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("   ")
	c.SetPrice(decimal.Zero)
	c.SetTelcoServices(domain.TelcoServiceBlock{Data: "1GB"})

	_, err := c.Submit()
	assert.Equal(t, []domain.Violation{
		domain.ViolationEmptyName,
		domain.ViolationMissingOrInvalidBaseProduct,
		domain.ViolationIncompleteTelcoServices,
		domain.ViolationInvalidPrice,
	}, violationsOf(t, err))
}

func TestSubmitNegativePrice(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("Bundle")
	c.SetPrice(decimal.NewFromFloat(-1.5))
	require.True(t, c.SelectBaseProduct("ott-1"))

	_, err := c.Submit()
	assert.Equal(t, []domain.Violation{domain.ViolationInvalidPrice}, violationsOf(t, err))
}

func TestSubmitIsDeterministic(t *testing.T) {
	c := New(testSnapshot())
	c.SetName("")
	c.SetPrice(decimal.NewFromInt(-3))

	_, first := c.Submit()
	_, second := c.Submit()
	assert.Equal(t, violationsOf(t, first), violationsOf(t, second))
}

func TestFromDraftReportsRejectedComplementary(t *testing.T) {
	_, err := FromDraft(testSnapshot(), Draft{
		Name:                    "Bundle",
		BaseProductID:           "ott-1",
		ComplementaryProductIDs: []string{"vas-1", "ott-1", "vas-1"},
		Price:                   decimal.NewFromInt(3),
	})
	assert.Equal(t, []domain.Violation{domain.ViolationInvalidComplementaryProduct}, violationsOf(t, err))
}

func TestFromDraftValid(t *testing.T) {
	req, err := FromDraft(testSnapshot(), Draft{
		Name:                    "Bundle",
		BaseProductID:           "vas-1",
		ComplementaryProductIDs: []string{"ott-2", "ott-1"},
		TelcoServices:           &domain.TelcoServiceBlock{Data: "10 GB", Voice: "200 min", SMS: "50"},
		Price:                   decimal.RequireFromString("19.90"),
		Description:             "Promo",
	})
	require.NoError(t, err)

	item := req.NewPackageItem()
	assert.Equal(t, "vas-1", item.BaseProduct.ID)
	assert.Equal(t, "ott-2", item.ComplementaryProducts[0].ID)
	assert.Equal(t, "ott-1", item.ComplementaryProducts[1].ID)
	require.NotNil(t, item.TelcoServices)
	assert.Equal(t, "10 GB", item.TelcoServices.Data)
	assert.Empty(t, item.ID)
	assert.Empty(t, item.TicketID)
}
