package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-service/internal/api/dto"
	"github.com/spec-kit/package-service/internal/auth"
	"github.com/spec-kit/package-service/internal/domain"
	"github.com/spec-kit/package-service/internal/service"
	apperrors "github.com/spec-kit/package-service/pkg/util/errorutil"
)

const (
	maxPageSize = 100

	// Keeps (page-1)*page_size well inside int range.
	maxPage = 10000
)

// PackagesHandler manages package composition, lifecycle and ticket endpoints.
type PackagesHandler struct {
	packages  *service.PackageService
	lifecycle *service.LifecycleService
}

// NewPackagesHandler constructs handler.
func NewPackagesHandler(packageService *service.PackageService, lifecycleService *service.LifecycleService) *PackagesHandler {
	return &PackagesHandler{packages: packageService, lifecycle: lifecycleService}
}

// ValidatePackage POST /packages/validate. Runs the composer without storing anything.
func (h *PackagesHandler) ValidatePackage(c *fiber.Ctx) error {
	var req dto.PackageDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	_, err := h.packages.Compose(c.UserContext(), req.Draft())
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"data": dto.ValidationResponse{Valid: true, Violations: []domain.Violation{}}})
	case errors.As(err, &verr):
		return c.JSON(fiber.Map{"data": dto.ValidationResponse{Valid: false, Violations: verr.Violations}})
	default:
		return err
	}
}

// CreatePackage POST /packages.
func (h *PackagesHandler) CreatePackage(c *fiber.Ctx) error {
	var req dto.PackageDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ctx := c.UserContext()
	validated, err := h.packages.Compose(ctx, req.Draft())
	if err != nil {
		return err
	}
	item, err := h.packages.Create(ctx, auth.ActorFromContext(c), validated)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.PackageCreatedResponse{
		Package: dto.NewPackageResponse(item),
		Ticket:  h.packages.Ticket(item),
	}})
}

// ListPackages GET /packages.
func (h *PackagesHandler) ListPackages(c *fiber.Ctx) error {
	query := parsePackageQuery(c)
	items, err := h.packages.List(c.UserContext(), service.PackageListFilter{
		SearchTerm:  query.Search,
		Provider:    query.Provider,
		BaseProduct: query.BaseProduct,
		Statuses:    query.Statuses,
		Limit:       query.PageSize,
		Offset:      (query.Page - 1) * query.PageSize,
	})
	if err != nil {
		return err
	}
	resp := make([]dto.PackageResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewPackageResponse(&items[i]))
	}
	return c.JSON(fiber.Map{
		"data": resp,
		"meta": fiber.Map{"page": query.Page, "page_size": query.PageSize},
	})
}

// GetPackage GET /packages/:id.
func (h *PackagesHandler) GetPackage(c *fiber.Ctx) error {
	item, err := h.packages.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPackageResponse(item)})
}

// GetTicket GET /packages/:id/ticket.
func (h *PackagesHandler) GetTicket(c *fiber.Ctx) error {
	text, _, err := h.packages.RenderTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

// ChangeStatus POST /packages/:id/status.
func (h *PackagesHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	item, err := h.lifecycle.Transition(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPackageResponse(item)})
}

// DeletePackage DELETE /packages/:id.
func (h *PackagesHandler) DeletePackage(c *fiber.Ctx) error {
	if err := h.packages.Delete(c.UserContext(), auth.ActorFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parsePackageQuery(c *fiber.Ctx) dto.PackageListQuery {
	query := dto.PackageListQuery{
		Search:      optionalQuery(c, "search"),
		Provider:    optionalQuery(c, "provider"),
		BaseProduct: optionalQuery(c, "base_product"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			if part = strings.TrimSpace(part); part != "" {
				query.Statuses = append(query.Statuses, domain.PackageStatus(part))
			}
		}
	}
	query.Page = parseInt(c.Query("page"), 1)
	if query.Page > maxPage {
		query.Page = maxPage
	}
	query.PageSize = parseInt(c.Query("page_size"), 20)
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}
	return query
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
