package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/indipro/wsp/internal/access"
	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/calendar"
	"github.com/indipro/wsp/internal/company"
	"github.com/indipro/wsp/internal/profile"
)

// usersHandler groups the profile-viewing HTTP handlers available to any
// authenticated user. What each caller can see is decided by the access rules.
type usersHandler struct {
	profiles  *profile.Store
	companies *company.Store
}

func newUsersHandler(profiles *profile.Store, companies *company.Store) *usersHandler {
	return &usersHandler{profiles: profiles, companies: companies}
}

// profileFromAuth rebuilds a profile snapshot from the authenticated user in
// the request context. The snapshot carries everything the access rules need.
func profileFromAuth(u *auth.User) *profile.Profile {
	if u == nil {
		return nil
	}
	return &profile.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      profile.Role(u.Role),
		CompanyID: u.CompanyID,
	}
}

// canAccessBoard reports whether current may read the viewing profile's board
// data. Own boards are always accessible; everything else follows the
// viewable-profiles rules.
func canAccessBoard(current, viewing *profile.Profile) bool {
	if current == nil || viewing == nil {
		return false
	}
	return viewing.ID == current.ID || access.CanView(current, viewing)
}

// resolveBoard loads the profile whose board is addressed by the {id} URL
// parameter and verifies the caller may access it. On failure it writes the
// error response and returns nil.
func (h *usersHandler) resolveBoard(w http.ResponseWriter, r *http.Request) (current, viewing *profile.Profile) {
	current = profileFromAuth(auth.UserFromContext(r.Context()))
	if current == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return nil, nil
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is required")
		return nil, nil
	}

	viewing, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return nil, nil
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return nil, nil
	}

	if !canAccessBoard(current, viewing) {
		writeError(w, http.StatusForbidden, "forbidden", "no access to this user's board")
		return nil, nil
	}
	return current, viewing
}

// ListViewable handles GET /api/v1/users — the profiles visible to the caller.
func (h *usersHandler) ListViewable(w http.ResponseWriter, r *http.Request) {
	current := profileFromAuth(auth.UserFromContext(r.Context()))
	if current == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	all, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": access.ViewableProfiles(current, all),
	})
}

// Permissions handles GET /api/v1/users/{id}/permissions — the caller's
// permission set while viewing the given profile's board.
func (h *usersHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	current := profileFromAuth(auth.UserFromContext(r.Context()))
	if current == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	id := chi.URLParam(r, "id")
	viewing, err := h.profiles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	all, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, access.ComputePermissions(current, viewing, all))
}

// startMonthFor resolves the fiscal calendar applying to a profile: the
// company's configured start month, or the default for unaffiliated profiles.
func (h *usersHandler) startMonthFor(r *http.Request, p *profile.Profile) (calendar.StartMonth, error) {
	if p.CompanyID == nil {
		return calendar.DefaultStartMonth, nil
	}
	c, err := h.companies.GetByID(r.Context(), *p.CompanyID)
	if err != nil {
		return "", err
	}
	return c.CalendarStartMonth, nil
}

// WeekContext handles GET /api/v1/users/{id}/week-context?date=2006-01-02.
// Week numbers are always computed against the viewed profile's company
// calendar, so two viewers of the same board agree on the numbering.
func (h *usersHandler) WeekContext(w http.ResponseWriter, r *http.Request) {
	_, viewing := h.resolveBoard(w, r)
	if viewing == nil {
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted as 2006-01-02")
			return
		}
		day = parsed
	}

	startMonth, err := h.startMonthFor(r, viewing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load company calendar")
		return
	}

	writeJSON(w, http.StatusOK, calendar.ContextFor(day, startMonth))
}
