package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// NotificationService bridges domain events to the outbound notifier. It is
// the only event subscriber; delivery outcomes are logged and counted, never
// surfaced to the publishing pipeline.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   *notify.Notifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier *notify.Notifier, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventContactRequester, n.handleContactRequester)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	if event.Ticket == nil {
		return nil
	}
	n.record(event, n.notifier.TicketCreated(ctx, event.Ticket))
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	if event.Ticket == nil {
		return nil
	}
	n.record(event, n.notifier.TicketAssigned(ctx, event.Ticket))
	return nil
}

func (n *NotificationService) handleContactRequester(ctx context.Context, event events.Event) error {
	if event.Ticket == nil {
		return nil
	}
	n.record(event, n.notifier.ContactRequester(ctx, event.Ticket, event.Message))
	return nil
}

func (n *NotificationService) record(event events.Event, deliveries []notify.Delivery) {
	for _, d := range deliveries {
		n.metrics.RecordDelivery(d.Channel, string(d.Status))
		if d.Status == notify.DeliveryFailed {
			n.logger.Warn("notification delivery failed",
				zap.String("event_type", string(event.Type)),
				zap.Int64("ticket_id", event.Ticket.ID),
				zap.String("channel", d.Channel),
				zap.String("target", d.Target),
				zap.Error(d.Err))
		}
	}
}
