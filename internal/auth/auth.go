package auth

import "context"

// User represents an authenticated profile as seen by HTTP middleware and
// handlers. It is a detached copy of the profile row backing the session.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string // "user", "admin" or "superadmin"
	CompanyID *string
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// IsSuperadmin returns true if the user has the superadmin role.
func (u *User) IsSuperadmin() bool {
	return u.Role == "superadmin"
}

// SessionLookup is the interface for resolving session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}
