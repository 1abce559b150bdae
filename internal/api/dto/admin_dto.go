package dto

// UserCreateRequest payload for new operator accounts.
type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UserUpdateRequest payload for patching an operator.
type UserUpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

// BankToggleRequest payload for assigning/unassigning a bank.
type BankToggleRequest struct {
	Bank string `json:"bank"`
}

// BalanceAdjustRequest payload for balance mutations. Amount stays a string
// end to end so malformed input can be rejected rather than coerced.
type BalanceAdjustRequest struct {
	Bank            string   `json:"bank,omitempty"`
	Amount          string   `json:"amount"`
	Reason          string   `json:"reason"`
	ExpectedBalance *float64 `json:"expected_balance,omitempty"`
}

// NameRequest payload for creating platforms and banks.
type NameRequest struct {
	Name string `json:"name"`
}

// BrandingRequest payload for white-label configuration.
type BrandingRequest struct {
	DisplayName  string `json:"display_name"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	SupportEmail string `json:"support_email"`
}
