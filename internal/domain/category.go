package domain

import "time"

// Category groups todos for a single owner.
type Category struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
