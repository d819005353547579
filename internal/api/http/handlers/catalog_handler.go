package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-service/internal/api/dto"
	"github.com/spec-kit/package-service/internal/service"
	apperrors "github.com/spec-kit/package-service/pkg/util/errorutil"
)

// CatalogHandler exposes catalog candidates for composing packages.
type CatalogHandler struct {
	service *service.PackageService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(packageService *service.PackageService) *CatalogHandler {
	return &CatalogHandler{service: packageService}
}

// ListProducts GET /catalog/products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	pool := service.CandidatePool(c.Query("pool"))
	switch pool {
	case service.PoolAll, service.PoolBase, service.PoolComplementary:
	default:
		return apperrors.NewValidationError("pool must be base or complementary", map[string]any{"pool": string(pool)})
	}
	products, err := h.service.Candidates(c.UserContext(), pool, c.Query("base_product_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductList(products)})
}

// ListProviders GET /catalog/providers.
func (h *CatalogHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.service.Providers(c.UserContext())
	if err != nil {
		return err
	}
	if providers == nil {
		providers = []string{}
	}
	return c.JSON(fiber.Map{"data": providers})
}
