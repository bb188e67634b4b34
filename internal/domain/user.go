package domain

import "time"

// UserRole enumerates access levels attached to users.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleUser     UserRole = "user"
)

// User is the stable internal identity behind inbound messages. A user may
// carry a (Source, ExternalID) pair naming the channel identity it was first
// seen on; both the pair and the email are unique when present. Users are
// never deleted, only deactivated.
type User struct {
	ID           string
	Email        *string
	Name         string
	Role         UserRole
	Source       *string
	ExternalID   *string
	PasswordHash *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasExternalIdentity reports whether the user is linked to a channel identity.
func (u *User) HasExternalIdentity() bool {
	return u.Source != nil && u.ExternalID != nil
}
