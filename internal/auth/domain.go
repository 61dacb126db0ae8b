package auth

import "time"

// Role names. Member is granted at registration; Admin only via seeding.
const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

// User represents a registered account with its role snapshot.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
