package domain

import "time"

// Bank is an organization-wide bank name users can be assigned to.
type Bank struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
