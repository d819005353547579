package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/package-service/internal/composer"
	"github.com/spec-kit/package-service/internal/domain"
)

// TelcoServicesPayload carries the data/voice/SMS allowances.
type TelcoServicesPayload struct {
	Data  string `json:"data"`
	Voice string `json:"voice"`
	SMS   string `json:"sms"`
}

// PackageDraftRequest payload for validate and create.
type PackageDraftRequest struct {
	Name                    string                `json:"name"`
	Description             string                `json:"description"`
	BaseProductID           string                `json:"base_product_id"`
	ComplementaryProductIDs []string              `json:"complementary_product_ids"`
	TelcoServices           *TelcoServicesPayload `json:"telco_services"`
	Price                   decimal.Decimal       `json:"price"`
}

// Draft converts the payload into composer input.
func (r PackageDraftRequest) Draft() composer.Draft {
	draft := composer.Draft{
		Name:                    r.Name,
		Description:             r.Description,
		BaseProductID:           r.BaseProductID,
		ComplementaryProductIDs: r.ComplementaryProductIDs,
		Price:                   r.Price,
	}
	if r.TelcoServices != nil {
		draft.TelcoServices = &domain.TelcoServiceBlock{
			Data:  r.TelcoServices.Data,
			Voice: r.TelcoServices.Voice,
			SMS:   r.TelcoServices.SMS,
		}
	}
	return draft
}

// StatusChangeRequest payload.
type StatusChangeRequest struct {
	Status domain.PackageStatus `json:"status"`
}

// PackageListQuery captures query filters for listing.
type PackageListQuery struct {
	Search      *string
	Provider    *string
	BaseProduct *string
	Statuses    []domain.PackageStatus
	Page        int
	PageSize    int
}

// ValidationResponse reports composer results without persisting.
type ValidationResponse struct {
	Valid      bool               `json:"valid"`
	Violations []domain.Violation `json:"violations"`
}

// ProductResponse describes a catalog product.
type ProductResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Provider string               `json:"provider"`
	Type     domain.ProductType   `json:"type"`
	Status   domain.ProductStatus `json:"status"`
}

// PackageResponse is the stored package.
type PackageResponse struct {
	ID                    string                `json:"id"`
	TicketID              string                `json:"ticket_id"`
	Name                  string                `json:"name"`
	Description           string                `json:"description"`
	BaseProduct           ProductResponse       `json:"base_product"`
	ComplementaryProducts []ProductResponse     `json:"complementary_products"`
	TelcoServices         *TelcoServicesPayload `json:"telco_services"`
	Price                 decimal.Decimal       `json:"price"`
	Status                domain.PackageStatus  `json:"status"`
	CreatedAt             time.Time             `json:"created_at"`
}

// PackageCreatedResponse pairs the stored package with its provisioning ticket.
type PackageCreatedResponse struct {
	Package PackageResponse `json:"package"`
	Ticket  string          `json:"ticket"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Provider: p.Provider, Type: p.Type, Status: p.Status}
}

// NewProductList maps a product slice, never returning nil.
func NewProductList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// NewPackageResponse maps a stored package.
func NewPackageResponse(item *domain.PackageItem) PackageResponse {
	resp := PackageResponse{
		ID:                    item.ID,
		TicketID:              item.TicketID,
		Name:                  item.Name,
		Description:           item.Description,
		BaseProduct:           NewProductResponse(item.BaseProduct),
		ComplementaryProducts: NewProductList(item.ComplementaryProducts),
		Price:                 item.Price,
		Status:                item.Status,
		CreatedAt:             item.CreatedAt,
	}
	if t := item.TelcoServices; t != nil {
		resp.TelcoServices = &TelcoServicesPayload{Data: t.Data, Voice: t.Voice, SMS: t.SMS}
	}
	return resp
}
