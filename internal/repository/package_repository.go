package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/package-service/internal/domain"
)

// PackageFilter narrows package listings. String fields match case-insensitive substrings.
type PackageFilter struct {
	SearchTerm  *string
	Provider    *string
	BaseProduct *string
	Statuses    []domain.PackageStatus
	Limit       int
	Offset      int
}

// StatusMutator computes the next status from the current one. Returning the
// current status leaves the record untouched.
type StatusMutator func(current domain.PackageStatus) (domain.PackageStatus, error)

// PackageRepository encapsulates package persistence. Writes to one package
// are serialized; reads never wait on those writes.
type PackageRepository interface {
	Create(ctx context.Context, item *domain.PackageItem) error
	GetByID(ctx context.Context, id string) (*domain.PackageItem, error)
	List(ctx context.Context, filter PackageFilter) ([]domain.PackageItem, error)
	// UpdateStatus applies mutate under the package's write lock and returns
	// the status before the call together with the stored record after it.
	UpdateStatus(ctx context.Context, id string, mutate StatusMutator) (domain.PackageStatus, *domain.PackageItem, error)
	Delete(ctx context.Context, id string) error
}

func (f PackageFilter) matches(item *domain.PackageItem) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if item.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if term := normalize(f.SearchTerm); term != "" {
		if !containsFold(item.Name, term) &&
			!containsFold(item.BaseProduct.Name, term) &&
			!containsFold(item.BaseProduct.Provider, term) {
			return false
		}
	}
	if provider := normalize(f.Provider); provider != "" {
		found := containsFold(item.BaseProduct.Provider, provider)
		for _, p := range item.ComplementaryProducts {
			found = found || containsFold(p.Provider, provider)
		}
		if !found {
			return false
		}
	}
	if base := normalize(f.BaseProduct); base != "" {
		if !containsFold(item.BaseProduct.Name, base) && !strings.EqualFold(item.BaseProduct.ID, base) {
			return false
		}
	}
	return true
}

func normalize(val *string) string {
	if val == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*val))
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
