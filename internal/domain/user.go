package domain

import (
	"strings"
	"time"
)

// AdminUser is an operator account in the back office. AssignedBanks is the
// set of bank names the user may hold balances under; BankBalances must only
// contain keys present in AssignedBanks.
type AdminUser struct {
	ID            string
	Name          string
	Email         string
	RoleKey       string
	AssignedBanks []string
	BankBalances  map[string]float64
	PasswordHash  string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssignedBankName returns the stored casing for a bank in the user's
// assigned set. Bank names are unique case-insensitively, so membership
// lookups follow suit.
func (u *AdminUser) AssignedBankName(bank string) (string, bool) {
	for _, b := range u.AssignedBanks {
		if strings.EqualFold(b, bank) {
			return b, true
		}
	}
	return "", false
}

// HasBank reports whether the bank is in the user's assigned set.
func (u *AdminUser) HasBank(bank string) bool {
	_, ok := u.AssignedBankName(bank)
	return ok
}

// BalanceFor returns the user's balance under the named bank (zero when absent).
func (u *AdminUser) BalanceFor(bank string) float64 {
	for name, balance := range u.BankBalances {
		if strings.EqualFold(name, bank) {
			return balance
		}
	}
	return 0
}
