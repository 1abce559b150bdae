package domain

import "time"

// Organization carries the white-label branding configuration surfaced by
// the admin UI.
type Organization struct {
	ID           string
	Name         string
	DisplayName  string
	LogoURL      string
	PrimaryColor string
	AccentColor  string
	SupportEmail string
	UpdatedAt    time.Time
}
