package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spec-kit/package-service/internal/catalog"
	"github.com/spec-kit/package-service/internal/composer"
	"github.com/spec-kit/package-service/internal/domain"
	"github.com/spec-kit/package-service/internal/events"
	"github.com/spec-kit/package-service/internal/observability"
	"github.com/spec-kit/package-service/internal/repository"
	"github.com/spec-kit/package-service/internal/ticket"
)

// CandidatePool selects which catalog products a composer should offer.
type CandidatePool string

const (
	PoolAll           CandidatePool = ""
	PoolBase          CandidatePool = "base"
	PoolComplementary CandidatePool = "complementary"
)

// PackageService coordinates package composition, storage and ticket rendering.
type PackageService struct {
	packages   repository.PackageRepository
	sequencer  repository.TicketSequencer
	catalog    catalog.Reader
	generator  *ticket.Generator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// PackageDependencies bundles collaborators for the package service.
type PackageDependencies struct {
	PackageRepo repository.PackageRepository
	Sequencer   repository.TicketSequencer
	Catalog     catalog.Reader
	Generator   *ticket.Generator
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// PackageListFilter describes listing filters.
type PackageListFilter struct {
	SearchTerm  *string
	Provider    *string
	BaseProduct *string
	Statuses    []domain.PackageStatus
	Limit       int
	Offset      int
}

// NewPackageService constructs the service.
func NewPackageService(deps PackageDependencies) *PackageService {
	s := &PackageService{
		packages:   deps.PackageRepo,
		sequencer:  deps.Sequencer,
		catalog:    deps.Catalog,
		generator:  deps.Generator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.generator == nil {
		s.generator = ticket.NewGenerator(time.UTC)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Candidates lists the catalog products a composer may offer for pool.
func (s *PackageService) Candidates(ctx context.Context, pool CandidatePool, baseProductID string) ([]domain.Product, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	c := composer.New(snapshot)
	switch pool {
	case PoolBase:
		return c.BaseCandidates(), nil
	case PoolComplementary:
		c.SelectBaseProduct(baseProductID)
		return c.ComplementaryCandidates(), nil
	default:
		return snapshot.Products(), nil
	}
}

// Providers lists the distinct catalog providers, used to drive the list's provider filter.
func (s *PackageService) Providers(ctx context.Context) ([]string, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Providers(), nil
}

// Compose validates a draft against the latest catalog snapshot.
func (s *PackageService) Compose(ctx context.Context, draft composer.Draft) (composer.ValidatedRequest, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return composer.ValidatedRequest{}, err
	}
	return composer.FromDraft(snapshot, draft)
}

// Create stores a validated request as a new Pending package with a fresh ticket id.
func (s *PackageService) Create(ctx context.Context, actor events.Actor, req composer.ValidatedRequest) (item *domain.PackageItem, err error) {
	ctx, span := observability.StartSpan(ctx, "PackageService.Create")
	defer func() { observability.EndSpan(span, err) }()

	if !req.Valid() {
		return nil, fmt.Errorf("%w: request was not submitted through the composer", domain.ErrValidation)
	}

	now := s.now()
	// The ticket year matches the date printed on the ticket.
	year := s.generator.Local(now).Year()
	seq, err := s.sequencer.Next(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("assign ticket id: %w", err)
	}

	item = req.NewPackageItem()
	item.ID = uuid.NewString()
	item.TicketID = domain.FormatTicketID(year, seq)
	item.Status = domain.PackageStatusPending
	item.CreatedAt = now

	if err := s.packages.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("store package: %w", err)
	}
	span.SetAttributes(attribute.String("package.id", item.ID), attribute.String("package.ticket_id", item.TicketID))

	s.logger.Info("package created",
		zap.String("package_id", item.ID),
		zap.String("ticket_id", item.TicketID),
		zap.String("operator_id", actor.OperatorID))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPackageCreated,
		PackageID: item.ID,
		TicketID:  item.TicketID,
		Actor:     actor,
		Timestamp: now,
		Payload:   events.PackageCreatedPayload{Package: *item.Clone()},
	})
	return item, nil
}

// Get fetches a package by id.
func (s *PackageService) Get(ctx context.Context, id string) (*domain.PackageItem, error) {
	return s.packages.GetByID(ctx, id)
}

// List returns a snapshot of packages matching filter.
func (s *PackageService) List(ctx context.Context, filter PackageListFilter) ([]domain.PackageItem, error) {
	return s.packages.List(ctx, repository.PackageFilter{
		SearchTerm:  filter.SearchTerm,
		Provider:    filter.Provider,
		BaseProduct: filter.BaseProduct,
		Statuses:    filter.Statuses,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// Delete removes a package permanently.
func (s *PackageService) Delete(ctx context.Context, actor events.Actor, id string) (err error) {
	ctx, span := observability.StartSpan(ctx, "PackageService.Delete", attribute.String("package.id", id))
	defer func() { observability.EndSpan(span, err) }()

	item, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.packages.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("package deleted",
		zap.String("package_id", id),
		zap.String("ticket_id", item.TicketID),
		zap.String("operator_id", actor.OperatorID))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPackageDeleted,
		PackageID: id,
		TicketID:  item.TicketID,
		Actor:     actor,
		Payload:   events.PackageDeletedPayload{Name: item.Name},
	})
	return nil
}

// RenderTicket renders the provisioning artifact for a stored package, stamped now.
func (s *PackageService) RenderTicket(ctx context.Context, id string) (string, *domain.PackageItem, error) {
	item, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return s.Ticket(item), item, nil
}

// Ticket renders the provisioning artifact for item, stamped now.
func (s *PackageService) Ticket(item *domain.PackageItem) string {
	return s.generator.Render(item, s.now())
}

func (s *PackageService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, s.now, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("package_id", event.PackageID),
			zap.Error(err))
	}
}
