package profile

import "time"

// Role is a profile's privilege level. Roles are ordered: user < admin <
// superadmin.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperadmin
}

// Profile represents a user account. ID doubles as the authentication
// identity. CompanyID is nil for unaffiliated profiles; a superadmin is
// always treated as unaffiliated regardless of the stored value.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CompanyID    *string   `json:"company_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateProfileInput holds the fields required to create a new profile.
type CreateProfileInput struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"company_id"`
}

// UpdateProfileInput holds optional fields for a partial profile update.
// CompanyID uses a double pointer so callers can distinguish "leave
// unchanged" from "clear the affiliation".
type UpdateProfileInput struct {
	Name      *string  `json:"name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Password  *string  `json:"password,omitempty"`
	Role      *Role    `json:"role,omitempty"`
	CompanyID **string `json:"company_id,omitempty"`
}

// Session represents an active login session.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
