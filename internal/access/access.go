// Package access derives authorization decisions from profile snapshots.
// These are the rules that decide which task boards a user may see and what
// they may do on them, so every handler that serves or mutates board data
// must consult them — they are an enforcement filter, not a display hint.
//
// The functions here are pure and total: malformed or missing input degrades
// to the least-privileged answer instead of returning an error.
package access

import "github.com/indipro/wsp/internal/profile"

// Permissions describes what the current user may do while viewing a
// particular profile's board.
type Permissions struct {
	CanEditTasks   bool               `json:"can_edit_tasks"`
	CanAddTask     bool               `json:"can_add_task"`
	CanManageUsers bool               `json:"can_manage_users"`
	ViewableUsers  []*profile.Profile `json:"viewable_users"`
}

// sameCompany reports whether two profiles share a company affiliation. Two
// unaffiliated profiles (both nil) count as the same, matching how company
// scoping behaves for admins without an assignment.
func sameCompany(a, b *profile.Profile) bool {
	if a == nil || b == nil {
		return false
	}
	if a.CompanyID == nil || b.CompanyID == nil {
		return a.CompanyID == nil && b.CompanyID == nil
	}
	return *a.CompanyID == *b.CompanyID
}

// ViewableProfiles returns the profiles the current user is allowed to see:
// a superadmin sees everyone but themselves, an admin sees profiles in their
// own company (themselves included), and everyone else sees only themselves.
// A nil current user sees nothing. No ordering is imposed; callers sort for
// presentation.
func ViewableProfiles(current *profile.Profile, all []*profile.Profile) []*profile.Profile {
	viewable := []*profile.Profile{}
	if current == nil {
		return viewable
	}

	for _, p := range all {
		if p == nil {
			continue
		}
		switch current.Role {
		case profile.RoleSuperadmin:
			if p.ID != current.ID {
				viewable = append(viewable, p)
			}
		case profile.RoleAdmin:
			if sameCompany(p, current) {
				viewable = append(viewable, p)
			}
		default:
			// Unknown role strings fall through to the least-privileged
			// case, same as a plain user.
			if p.ID == current.ID {
				viewable = append(viewable, p)
			}
		}
	}
	return viewable
}

// ComputePermissions derives the full permission set for the current user
// while they view the given profile's board. Editing and deleting tasks is
// reserved for the board owner; adding tasks to someone else's board is
// allowed for admins within their company and for superadmins anywhere.
// A nil current user gets no permissions and an empty viewable list.
func ComputePermissions(current, viewing *profile.Profile, all []*profile.Profile) Permissions {
	if current == nil {
		return Permissions{ViewableUsers: []*profile.Profile{}}
	}

	ownBoard := viewing != nil && viewing.ID == current.ID
	isAdmin := current.Role == profile.RoleAdmin
	isSuperadmin := current.Role == profile.RoleSuperadmin

	adminOnCompanyBoard := isAdmin && viewing != nil && sameCompany(viewing, current) && !ownBoard
	superadminOnOtherBoard := isSuperadmin && viewing != nil && viewing.ID != current.ID

	return Permissions{
		CanEditTasks:   ownBoard,
		CanAddTask:     ownBoard || adminOnCompanyBoard || superadminOnOtherBoard,
		CanManageUsers: isSuperadmin,
		ViewableUsers:  ViewableProfiles(current, all),
	}
}

// CanView reports whether the current user may view the given profile's
// board. It is equivalent to membership in ViewableProfiles.
func CanView(current, viewing *profile.Profile) bool {
	if current == nil || viewing == nil {
		return false
	}
	switch current.Role {
	case profile.RoleSuperadmin:
		return viewing.ID != current.ID
	case profile.RoleAdmin:
		return sameCompany(viewing, current)
	default:
		return viewing.ID == current.ID
	}
}
