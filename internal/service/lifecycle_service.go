package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spec-kit/package-service/internal/domain"
	"github.com/spec-kit/package-service/internal/events"
	"github.com/spec-kit/package-service/internal/observability"
	"github.com/spec-kit/package-service/internal/repository"
)

// LifecycleService applies status transitions to stored packages.
type LifecycleService struct {
	packages   repository.PackageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// LifecycleDependencies bundles collaborators.
type LifecycleDependencies struct {
	PackageRepo repository.PackageRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewLifecycleService creates the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	s := &LifecycleService{
		packages:   deps.PackageRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Transition moves package id to target. Moving to the current status is a
// no-op that emits nothing; Pending is never a valid target.
func (s *LifecycleService) Transition(ctx context.Context, actor events.Actor, id string, target domain.PackageStatus) (item *domain.PackageItem, err error) {
	ctx, span := observability.StartSpan(ctx, "LifecycleService.Transition",
		attribute.String("package.id", id),
		attribute.String("package.target_status", string(target)))
	defer func() { observability.EndSpan(span, err) }()

	if !domain.ValidTarget(target) {
		return nil, fmt.Errorf("%w: %q is not a valid target", domain.ErrInvalidTransition, target)
	}

	changed := false
	previous, item, err := s.packages.UpdateStatus(ctx, id, func(current domain.PackageStatus) (domain.PackageStatus, error) {
		noop, err := domain.CheckTransition(current, target)
		if err != nil {
			return current, err
		}
		changed = !noop
		return target, nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return item, nil
	}

	s.logger.Info("package status changed",
		zap.String("package_id", item.ID),
		zap.String("ticket_id", item.TicketID),
		zap.String("from", string(previous)),
		zap.String("to", string(item.Status)),
		zap.String("operator_id", actor.OperatorID))
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      events.EventPackageStatusChanged,
		PackageID: item.ID,
		TicketID:  item.TicketID,
		Actor:     actor,
		Payload: events.PackageStatusChangedPayload{
			OldStatus: previous,
			NewStatus: item.Status,
		},
	})
	return item, nil
}
