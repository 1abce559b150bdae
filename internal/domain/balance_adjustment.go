package domain

import "time"

// AdjustmentTarget distinguishes what kind of balance was changed.
type AdjustmentTarget string

const (
	AdjustmentTargetUser     AdjustmentTarget = "USER"
	AdjustmentTargetPlatform AdjustmentTarget = "PLATFORM"
)

// BalanceAdjustment is an immutable audit trail entry. It is appended on
// every balance mutation and never updated or deleted.
type BalanceAdjustment struct {
	ID         string
	TargetType AdjustmentTarget
	TargetID   string
	Bank       string
	OldBalance float64
	NewBalance float64
	Reason     string
	ActorName  string
	CreatedAt  time.Time
}
