package domain

import "time"

// Platform is a trading venue the organization settles USDT against.
type Platform struct {
	ID          string
	Name        string
	BalanceUSDT float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
