// Package catalog is the read-only boundary to the product catalog owned by
// another team. The core only ever reads the latest snapshot it was handed.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/package-service/internal/domain"
)

// Reader exposes the latest catalog snapshot.
type Reader interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Snapshot is an immutable view of the catalog at one point in time.
type Snapshot struct {
	order []string
	byID  map[string]domain.Product
}

// NewSnapshot copies products into a snapshot. Later duplicates of an id win.
func NewSnapshot(products []domain.Product) *Snapshot {
	s := &Snapshot{byID: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		if _, exists := s.byID[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.byID[p.ID] = p
	}
	return s
}

// Lookup returns the product with the given id.
func (s *Snapshot) Lookup(id string) (domain.Product, bool) {
	if s == nil {
		return domain.Product{}, false
	}
	p, ok := s.byID[id]
	return p, ok
}

// Products returns all products in feed order.
func (s *Snapshot) Products() []domain.Product {
	return s.Filter(func(domain.Product) bool { return true })
}

// Filter returns products matching keep, in feed order.
func (s *Snapshot) Filter(keep func(domain.Product) bool) []domain.Product {
	if s == nil {
		return nil
	}
	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		if p := s.byID[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Providers returns the distinct provider names, sorted.
func (s *Snapshot) Providers() []string {
	if s == nil {
		return nil
	}
	set := map[string]struct{}{}
	for _, p := range s.byID {
		set[p.Provider] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Feed is an in-memory Reader refreshed by the catalog owner.
type Feed struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewFeed creates a feed seeded with products.
func NewFeed(products []domain.Product) *Feed {
	return &Feed{snapshot: NewSnapshot(products)}
}

// Snapshot returns the current snapshot.
func (f *Feed) Snapshot(_ context.Context) (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot, nil
}

// Replace swaps in a fresh snapshot. Snapshots already handed out are unaffected.
func (f *Feed) Replace(products []domain.Product) {
	next := NewSnapshot(products)
	f.mu.Lock()
	f.snapshot = next
	f.mu.Unlock()
}
