package profile

import (
	"context"

	"github.com/indipro/wsp/internal/auth"
)

// AuthAdapter adapts profile.Store to the auth.SessionLookup interface.
type AuthAdapter struct {
	store *Store
}

// NewAuthAdapter creates a new AuthAdapter wrapping the given profile store.
func NewAuthAdapter(store *Store) *AuthAdapter {
	return &AuthAdapter{store: store}
}

// LookupSession looks up a session token and returns the associated auth.User.
func (a *AuthAdapter) LookupSession(ctx context.Context, token string) (*auth.User, error) {
	p, err := a.store.GetSessionProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	return &auth.User{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		CompanyID: p.CompanyID,
	}, nil
}
