package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/config"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/events"
)

// NotificationService emits notifications for workflow events. Actual
// delivery transports are stubs; only the interface contract matters here.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to workflow events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventShiftStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventShiftAssigned, n.handleShiftAssigned)
	n.dispatcher.Subscribe(events.EventBulkOperationDone, n.handleBulkDone)
	n.dispatcher.Subscribe(events.EventShiftNotification, n.handleShiftNotification)
}

// Notify delivers a bulk notification message for a single shift by
// publishing it as an event the delivery handlers consume.
func (n *NotificationService) Notify(ctx context.Context, shiftID, message, actorID string) error {
	if n.dispatcher == nil {
		return nil
	}
	return n.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventShiftNotification,
		ShiftID:   shiftID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   events.ShiftNotificationPayload{Message: message},
	})
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftStatusChanged", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleShiftAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftAssigned", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBulkDone(ctx context.Context, event events.Event) error {
	n.logger.Info("BulkOperationCompleted", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleShiftNotification(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftNotification", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("shift_id", event.ShiftID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("shift_id", event.ShiftID),
		zap.String("event_type", string(event.Type)))
}
