package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/package-service/internal/domain"
)

type memoryPackageRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.PackageItem
	order   []string
	tickets map[string]string
	locks   keyedMutex
}

// NewMemoryPackageRepository returns a process-local package store.
func NewMemoryPackageRepository() PackageRepository {
	return &memoryPackageRepository{
		items:   make(map[string]*domain.PackageItem),
		tickets: make(map[string]string),
	}
}

func (r *memoryPackageRepository) Create(ctx context.Context, item *domain.PackageItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := r.locks.Lock(item.ID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: package %s exists", domain.ErrConflict, item.ID)
	}
	if _, exists := r.tickets[item.TicketID]; exists {
		return fmt.Errorf("%w: ticket %s already assigned", domain.ErrConflict, item.TicketID)
	}
	r.items[item.ID] = item.Clone()
	r.tickets[item.TicketID] = item.ID
	r.order = append(r.order, item.ID)
	return nil
}

func (r *memoryPackageRepository) GetByID(ctx context.Context, id string) (*domain.PackageItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item.Clone(), nil
}

// List returns newest packages first.
func (r *memoryPackageRepository) List(ctx context.Context, filter PackageFilter) ([]domain.PackageItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	snapshot := make([]*domain.PackageItem, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		snapshot = append(snapshot, r.items[r.order[i]].Clone())
	}
	r.mu.RUnlock()

	result := []domain.PackageItem{}
	skipped := 0
	for _, item := range snapshot {
		if !filter.matches(item) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		result = append(result, *item)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *memoryPackageRepository) UpdateStatus(ctx context.Context, id string, mutate StatusMutator) (domain.PackageStatus, *domain.PackageItem, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	unlock := r.locks.Lock(id)
	defer unlock()

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	previous := current.Status
	next, err := mutate(previous)
	if err != nil {
		return previous, nil, err
	}
	if next == previous {
		return previous, current, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return previous, nil, domain.ErrNotFound
	}
	stored.Status = next
	return previous, stored.Clone(), nil
}

func (r *memoryPackageRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := r.locks.Lock(id)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	// Ticket ids stay reserved after deletion.
	delete(r.items, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// keyedMutex serializes work per key while letting distinct keys proceed in parallel.
// Entries are dropped once no caller holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
