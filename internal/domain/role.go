package domain

import "time"

// RoleUser is assigned to every newly registered account.
const RoleUser = "ROLE_USER"

// Role is a named grant shared by many users through the user_roles relation.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
