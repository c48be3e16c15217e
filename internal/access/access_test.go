package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indipro/wsp/internal/profile"
)

func ptr(s string) *string { return &s }

func mkProfile(id string, role profile.Role, companyID *string) *profile.Profile {
	return &profile.Profile{ID: id, Name: id, Email: id + "@example.com", Role: role, CompanyID: companyID}
}

// Fixture: one superadmin, two companies with an admin and users each, plus
// an unaffiliated user.
var (
	companyA = ptr("company-a")
	companyB = ptr("company-b")

	superadmin = mkProfile("super-1", profile.RoleSuperadmin, nil)
	adminA     = mkProfile("admin-a", profile.RoleAdmin, companyA)
	userA1     = mkProfile("user-a1", profile.RoleUser, companyA)
	userA2     = mkProfile("user-a2", profile.RoleUser, companyA)
	adminB     = mkProfile("admin-b", profile.RoleAdmin, companyB)
	userB1     = mkProfile("user-b1", profile.RoleUser, companyB)
	loner      = mkProfile("user-loner", profile.RoleUser, nil)

	everyone = []*profile.Profile{superadmin, adminA, userA1, userA2, adminB, userB1, loner}
)

func ids(profiles []*profile.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestViewableProfilesSuperadmin(t *testing.T) {
	got := ViewableProfiles(superadmin, everyone)

	require.Len(t, got, len(everyone)-1)
	assert.NotContains(t, ids(got), superadmin.ID)
}

func TestViewableProfilesAdmin(t *testing.T) {
	got := ViewableProfiles(adminA, everyone)

	assert.ElementsMatch(t, []string{"admin-a", "user-a1", "user-a2"}, ids(got))
}

func TestViewableProfilesUser(t *testing.T) {
	got := ViewableProfiles(userB1, everyone)

	require.Len(t, got, 1)
	assert.Equal(t, userB1.ID, got[0].ID)
}

func TestViewableProfilesNilCurrent(t *testing.T) {
	got := ViewableProfiles(nil, everyone)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestViewableProfilesUnknownRole(t *testing.T) {
	odd := mkProfile("odd-1", profile.Role("auditor"), companyA)
	all := append([]*profile.Profile{odd}, everyone...)

	got := ViewableProfiles(odd, all)

	// An unrecognized role degrades to user-level visibility.
	require.Len(t, got, 1)
	assert.Equal(t, odd.ID, got[0].ID)
}

func TestViewableProfilesSkipsNilEntries(t *testing.T) {
	all := []*profile.Profile{userA1, nil, userA2}
	got := ViewableProfiles(adminA, all)

	assert.ElementsMatch(t, []string{"user-a1", "user-a2"}, ids(got))
}

func TestComputePermissionsOwnBoard(t *testing.T) {
	for _, p := range []*profile.Profile{userA1, adminA, superadmin} {
		perms := ComputePermissions(p, p, everyone)

		assert.True(t, perms.CanEditTasks, "%s on own board", p.ID)
		assert.True(t, perms.CanAddTask, "%s on own board", p.ID)
	}
}

func TestComputePermissionsAdminOnSubordinate(t *testing.T) {
	perms := ComputePermissions(adminA, userA1, everyone)

	assert.True(t, perms.CanAddTask)
	assert.False(t, perms.CanEditTasks)
	assert.False(t, perms.CanManageUsers)
}

func TestComputePermissionsAdminOnOtherCompany(t *testing.T) {
	// Should not be reachable through ViewableUsers, but the check must hold
	// even for out-of-scope input.
	perms := ComputePermissions(adminA, userB1, everyone)

	assert.False(t, perms.CanAddTask)
	assert.False(t, perms.CanEditTasks)
}

func TestComputePermissionsSuperadminOnOthers(t *testing.T) {
	perms := ComputePermissions(superadmin, userB1, everyone)

	assert.True(t, perms.CanAddTask)
	assert.False(t, perms.CanEditTasks)
	assert.True(t, perms.CanManageUsers)
}

func TestComputePermissionsNilViewing(t *testing.T) {
	for _, p := range []*profile.Profile{userA1, adminA, superadmin} {
		perms := ComputePermissions(p, nil, everyone)

		assert.False(t, perms.CanEditTasks, "%s with nil viewing", p.ID)
		assert.False(t, perms.CanAddTask, "%s with nil viewing", p.ID)
	}
}

func TestComputePermissionsUnauthenticated(t *testing.T) {
	perms := ComputePermissions(nil, userA1, everyone)

	assert.False(t, perms.CanEditTasks)
	assert.False(t, perms.CanAddTask)
	assert.False(t, perms.CanManageUsers)
	require.NotNil(t, perms.ViewableUsers)
	assert.Empty(t, perms.ViewableUsers)
}

func TestComputePermissionsIdempotent(t *testing.T) {
	a := ComputePermissions(adminA, userA1, everyone)
	b := ComputePermissions(adminA, userA1, everyone)
	assert.Equal(t, a, b)
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name    string
		current *profile.Profile
		viewing *profile.Profile
		want    bool
	}{
		{"superadmin views anyone else", superadmin, userB1, true},
		{"superadmin cannot view self", superadmin, superadmin, false},
		{"admin views same company", adminA, userA2, true},
		{"admin views self", adminA, adminA, true},
		{"admin blocked cross company", adminA, userB1, false},
		{"user views self", userA1, userA1, true},
		{"user blocked from peer", userA1, userA2, false},
		{"nil current", nil, userA1, false},
		{"nil viewing", adminA, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.current, tt.viewing))
		})
	}
}

func TestUnaffiliatedAdminSeesOnlyUnaffiliated(t *testing.T) {
	freeAdmin := mkProfile("admin-free", profile.RoleAdmin, nil)
	all := append([]*profile.Profile{freeAdmin}, everyone...)

	got := ViewableProfiles(freeAdmin, all)

	// Unaffiliated profiles share the nil "company"; superadmin is nil too.
	assert.ElementsMatch(t, []string{"admin-free", "user-loner", "super-1"}, ids(got))
}
