package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/finops-admin/internal/config"
	"github.com/spec-kit/finops-admin/internal/events"
)

type subscriptionRecorder struct {
	subscribed []events.EventType
}

func (r *subscriptionRecorder) Publish(context.Context, events.Event) error { return nil }

func (r *subscriptionRecorder) Subscribe(eventType events.EventType, _ events.EventHandler) {
	r.subscribed = append(r.subscribed, eventType)
}

func TestRegisterHandlersCoversAllEventTypes(t *testing.T) {
	recorder := &subscriptionRecorder{}
	svc := NewNotificationService(recorder, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	want := []events.EventType{
		events.EventUserCreated,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventBankAssignmentChanged,
		events.EventBalanceAdjusted,
		events.EventPlatformCreated,
		events.EventPlatformDeleted,
		events.EventBankCreated,
		events.EventBankDeleted,
		events.EventBrandingUpdated,
	}
	seen := map[events.EventType]bool{}
	for _, eventType := range recorder.subscribed {
		seen[eventType] = true
	}
	for _, eventType := range want {
		if !seen[eventType] {
			t.Fatalf("no handler subscribed for %s", eventType)
		}
	}
}
