package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/observability"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
	cfg     config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
}

// NotificationEventTypes are the events that produce notifications.
var NotificationEventTypes = []events.EventType{
	events.EventUserRegistered,
	events.EventComplaintCreated,
	events.EventComplaintStatusChanged,
	events.EventComplaintDeleted,
}

// Handle routes an event to its notification.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventUserRegistered:
		return n.handleUserRegistered(ctx, event)
	case events.EventComplaintCreated:
		return n.handleComplaintCreated(ctx, event)
	case events.EventComplaintStatusChanged:
		return n.handleComplaintStatusChanged(ctx, event)
	case events.EventComplaintDeleted:
		return n.handleComplaintDeleted(ctx, event)
	default:
		return nil
	}
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered",
		zap.String("user_id", event.SubjectID),
		zap.String("residency_id", event.ResidencyID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// New complaints go to the residency admins by email and webhook.
func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.metrics.RecordComplaintEvent(string(event.Type))
	n.logger.Info("ComplaintCreated",
		zap.String("complaint_id", event.SubjectID),
		zap.String("residency_id", event.ResidencyID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// Status changes are mailed back to the resident.
func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.metrics.RecordComplaintEvent(string(event.Type))
	n.logger.Info("ComplaintStatusChanged",
		zap.String("complaint_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintDeleted(ctx context.Context, event events.Event) error {
	n.metrics.RecordComplaintEvent(string(event.Type))
	n.logger.Info("ComplaintDeleted",
		zap.String("complaint_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
