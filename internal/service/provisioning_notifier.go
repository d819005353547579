package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/package-service/internal/config"
	"github.com/spec-kit/package-service/internal/events"
	"github.com/spec-kit/package-service/internal/ticket"
)

// ProvisioningNotifier hands package events to the back-office ticketing channel.
type ProvisioningNotifier struct {
	dispatcher events.Dispatcher
	generator  *ticket.Generator
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewProvisioningNotifier creates the notifier.
func NewProvisioningNotifier(dispatcher events.Dispatcher, generator *ticket.Generator, logger *zap.Logger, cfg config.NotificationConfig) *ProvisioningNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisioningNotifier{
		dispatcher: dispatcher,
		generator:  generator,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to package events.
func (n *ProvisioningNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPackageCreated, n.handlePackageCreated)
	n.dispatcher.Subscribe(events.EventPackageStatusChanged, n.handlePackageStatusChanged)
	n.dispatcher.Subscribe(events.EventPackageDeleted, n.handlePackageDeleted)
}

func (n *ProvisioningNotifier) handlePackageCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PackageCreatedPayload)
	if !ok {
		n.logger.Warn("PackageCreated without package payload", zap.String("ticket_id", event.TicketID))
		return nil
	}
	text := n.generator.Render(&payload.Package, event.Timestamp)
	n.logger.Info("PackageCreated",
		zap.String("ticket_id", event.TicketID),
		zap.String("operator_id", event.Actor.OperatorID),
		zap.Int("ticket_bytes", len(text)))
	n.sendWebhookStub(ctx, event, text)
	return nil
}

func (n *ProvisioningNotifier) handlePackageStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PackageStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event, "")
	return nil
}

func (n *ProvisioningNotifier) handlePackageDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("PackageDeleted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event, "")
	return nil
}

func (n *ProvisioningNotifier) sendWebhookStub(_ context.Context, event events.Event, ticketText string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	fields := []zap.Field{
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
	}
	if ticketText != "" {
		fields = append(fields, zap.String("ticket", ticketText))
	}
	n.logger.Debug("sendWebhookStub", fields...)
}
