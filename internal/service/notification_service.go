package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/finops-admin/internal/config"
	"github.com/spec-kit/finops-admin/internal/events"
)

// NotificationService surfaces domain events to operators. Notifications are
// fire-and-forget; nothing in the mutation path depends on them.
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

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserChanged)
	n.dispatcher.Subscribe(events.EventUserUpdated, n.handleUserChanged)
	n.dispatcher.Subscribe(events.EventUserDeleted, n.handleUserChanged)
	n.dispatcher.Subscribe(events.EventBankAssignmentChanged, n.handleCatalogChanged)
	n.dispatcher.Subscribe(events.EventBalanceAdjusted, n.handleBalanceAdjusted)
	n.dispatcher.Subscribe(events.EventPlatformCreated, n.handleCatalogChanged)
	n.dispatcher.Subscribe(events.EventPlatformDeleted, n.handleCatalogChanged)
	n.dispatcher.Subscribe(events.EventBankCreated, n.handleCatalogChanged)
	n.dispatcher.Subscribe(events.EventBankDeleted, n.handleCatalogChanged)
	n.dispatcher.Subscribe(events.EventBrandingUpdated, n.handleCatalogChanged)
}

// Success emits an operator-facing success notification.
func (n *NotificationService) Success(message string) {
	n.logger.Info("notify", zap.String("kind", "success"), zap.String("message", message))
}

// Error emits an operator-facing error notification.
func (n *NotificationService) Error(message string) {
	n.logger.Warn("notify", zap.String("kind", "error"), zap.String("message", message))
}

func (n *NotificationService) handleUserChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("actor", event.Actor.Name),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBalanceAdjusted(ctx context.Context, event events.Event) error {
	n.logger.Info("BalanceAdjusted",
		zap.String("actor", event.Actor.Name),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCatalogChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("actor", event.Actor.Name),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
