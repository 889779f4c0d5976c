package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/events"
)

// NotificationService surfaces assignment outcomes on the log stream so
// operators can watch who got what. Delivery channels beyond the log are
// out of scope.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to ticket-level events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketUnassigned, n.handleTicketUnassigned)
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("ticket assigned",
		zap.String("ticket_id", event.TicketID),
		zap.String("engineer", payload.Engineer),
		zap.String("priority", string(payload.Priority)),
		zap.String("category", string(payload.Category)),
		zap.Bool("fallback", payload.IsFallback),
	)
	return nil
}

func (n *NotificationService) handleTicketUnassigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUnassignedPayload)
	if !ok {
		return nil
	}
	n.logger.Warn("ticket unassigned",
		zap.String("ticket_id", event.TicketID),
		zap.String("priority", string(payload.Priority)),
		zap.String("reason", payload.Reason),
	)
	return nil
}
