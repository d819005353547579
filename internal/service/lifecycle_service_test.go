package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/package-service/internal/domain"
	"github.com/spec-kit/package-service/internal/events"
)

func TestTransitionWalk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, bundleA())

	_, err := f.lifecycle.Transition(ctx, operator, item.ID, domain.PackageStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, target := range []domain.PackageStatus{
		domain.PackageStatusActive,
		domain.PackageStatusInactive,
		domain.PackageStatusActive,
	} {
		updated, err := f.lifecycle.Transition(ctx, operator, item.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}

	stored, err := f.packages.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PackageStatusActive, stored.Status)

	_, err = f.lifecycle.Transition(ctx, operator, item.ID, domain.PackageStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionSameStatusIsSilentNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, bundleA())

	_, err := f.lifecycle.Transition(ctx, operator, item.ID, domain.PackageStatusInactive)
	require.NoError(t, err)
	updated, err := f.lifecycle.Transition(ctx, operator, item.ID, domain.PackageStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.PackageStatusInactive, updated.Status)

	assert.Equal(t, []events.EventType{events.EventPackageCreated, events.EventPackageStatusChanged}, f.recorder.types())

	f.recorder.mu.Lock()
	changed := f.recorder.events[1]
	f.recorder.mu.Unlock()
	assert.Equal(t, operator, changed.Actor)
	assert.NotEmpty(t, changed.ID)
	assert.Equal(t, events.PackageStatusChangedPayload{
		OldStatus: domain.PackageStatusPending,
		NewStatus: domain.PackageStatusInactive,
	}, changed.Payload)
}

func TestTransitionUnknownPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lifecycle.Transition(ctx, operator, "missing", domain.PackageStatusActive)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.lifecycle.Transition(ctx, operator, "missing", domain.PackageStatus("Archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "target is checked before lookup")
}

func TestConcurrentTransitionsOnePerChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, bundleA())

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.lifecycle.Transition(ctx, operator, item.ID, domain.PackageStatusActive)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	changes := 0
	for _, typ := range f.recorder.types() {
		if typ == events.EventPackageStatusChanged {
			changes++
		}
	}
	assert.Equal(t, 1, changes, "only the first writer observes Pending")
}
