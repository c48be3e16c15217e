package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/indipro/wsp/internal/audit"
	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/calendar"
	"github.com/indipro/wsp/internal/company"
	"github.com/indipro/wsp/internal/profile"
)

// adminHandler groups the superadmin management HTTP handlers.
type adminHandler struct {
	profiles  *profile.Store
	companies *company.Store
	trail     *audit.Store
	audit     *auditor
}

func newAdminHandler(profiles *profile.Store, companies *company.Store, trail *audit.Store, a *auditor) *adminHandler {
	return &adminHandler{profiles: profiles, companies: companies, trail: trail, audit: a}
}

// CreateUser handles POST /api/v1/admin/users.
func (h *adminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req profile.CreateProfileInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password is required")
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be user, admin or superadmin")
		return
	}
	if req.CompanyID != nil {
		if _, err := h.companies.GetByID(r.Context(), *req.CompanyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusUnprocessableEntity, "validation_error", "company does not exist")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to check company")
			return
		}
	}

	p, err := h.profiles.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	h.audit.record(r, "admin.user_create", "profile", p.ID, p.Email)
	writeJSON(w, http.StatusCreated, p)
}

// UpdateUser handles PUT /api/v1/admin/users/{id}.
func (h *adminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is required")
		return
	}

	var input profile.UpdateProfileInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Role != nil && !input.Role.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be user, admin or superadmin")
		return
	}
	if input.CompanyID != nil && *input.CompanyID != nil {
		if _, err := h.companies.GetByID(r.Context(), **input.CompanyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusUnprocessableEntity, "validation_error", "company does not exist")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to check company")
			return
		}
	}

	p, err := h.profiles.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		return
	}

	h.audit.record(r, "admin.user_update", "profile", p.ID, "")
	writeJSON(w, http.StatusOK, p)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}. A superadmin cannot
// delete their own account.
func (h *adminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is required")
		return
	}

	if caller := auth.UserFromContext(r.Context()); caller != nil && caller.ID == id {
		writeError(w, http.StatusConflict, "constraint_error", "cannot delete your own account")
		return
	}

	if _, err := h.profiles.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	h.audit.record(r, "admin.user_delete", "profile", id, "")
	w.WriteHeader(http.StatusNoContent)
}

// CreateCompany handles POST /api/v1/admin/companies.
func (h *adminHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if req.CalendarStartMonth == "" {
		req.CalendarStartMonth = calendar.DefaultStartMonth
	}
	if !req.CalendarStartMonth.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "calendar_start_month must be January or April")
		return
	}

	c, err := h.companies.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create company")
		return
	}

	h.audit.record(r, "admin.company_create", "company", c.ID, c.Name)
	writeJSON(w, http.StatusCreated, c)
}

// ListCompanies handles GET /api/v1/admin/companies.
func (h *adminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list companies")
		return
	}
	if companies == nil {
		companies = []*company.Company{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
	})
}

// DeleteCompany handles DELETE /api/v1/admin/companies/{id}.
func (h *adminHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "company id is required")
		return
	}

	err := h.companies.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyInUse) {
			writeError(w, http.StatusConflict, "constraint_error", "company still has users assigned")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete company")
		return
	}

	h.audit.record(r, "admin.company_delete", "company", id, "")
	w.WriteHeader(http.StatusNoContent)
}

// ListAuditEvents handles GET /api/v1/admin/audit.
func (h *adminHandler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	q := audit.Query{
		ActorID: r.URL.Query().Get("actor_id"),
		Action:  r.URL.Query().Get("action"),
		Cursor:  r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "from must be RFC 3339")
			return
		}
		q.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "to must be RFC 3339")
			return
		}
		q.To = t
	}

	events, nextCursor, err := h.trail.List(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list audit events")
		return
	}
	if events == nil {
		events = []*audit.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events":      events,
		"next_cursor": nextCursor,
	})
}
