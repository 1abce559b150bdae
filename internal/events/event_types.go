package events

import (
	"time"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated           EventType = "user_created"
	EventUserUpdated           EventType = "user_updated"
	EventUserDeleted           EventType = "user_deleted"
	EventBankAssignmentChanged EventType = "bank_assignment_changed"
	EventBalanceAdjusted       EventType = "balance_adjusted"
	EventPlatformCreated       EventType = "platform_created"
	EventPlatformDeleted       EventType = "platform_deleted"
	EventBankCreated           EventType = "bank_created"
	EventBankDeleted           EventType = "bank_deleted"
	EventBrandingUpdated       EventType = "branding_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserChangedPayload payload for user create/update/delete events.
type UserChangedPayload struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	RoleKey string `json:"role_key"`
}

// BankAssignmentChangedPayload payload.
type BankAssignmentChangedPayload struct {
	UserID   string `json:"user_id"`
	Bank     string `json:"bank"`
	Assigned bool   `json:"assigned"`
}

// BalanceAdjustedPayload payload.
type BalanceAdjustedPayload struct {
	TargetType domain.AdjustmentTarget `json:"target_type"`
	TargetID   string                  `json:"target_id"`
	Bank       string                  `json:"bank,omitempty"`
	OldBalance float64                 `json:"old_balance"`
	NewBalance float64                 `json:"new_balance"`
	Reason     string                  `json:"reason"`
}

// NameChangedPayload payload for platform/bank create and delete events.
type NameChangedPayload struct {
	Name string `json:"name"`
}
