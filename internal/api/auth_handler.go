package api

import (
	"net/http"

	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/profile"
)

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store   *profile.Store
	metrics *metrics.Metrics
	audit   *auditor
}

func newAuthHandler(store *profile.Store, m *metrics.Metrics, a *auditor) *authHandler {
	return &authHandler{store: store, metrics: m, audit: a}
}

// profileView is the profile shape returned to clients. It never includes the
// password hash.
func profileView(p *profile.Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID,
		"name":       p.Name,
		"email":      p.Email,
		"role":       p.Role,
		"company_id": p.CompanyID,
		"created_at": p.CreatedAt,
	}
}

// Login handles POST /api/v1/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	p, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncAuthFailure("password")
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	if !profile.CheckPassword(p, req.Password) {
		if h.metrics != nil {
			h.metrics.IncAuthFailure("password")
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	token, _, err := h.store.CreateSession(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	if h.metrics != nil {
		h.metrics.IncAuthSuccess("password")
	}
	h.audit.record(r, "auth.login", "profile", p.ID, "")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  profileView(p),
	})
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	p, err := h.store.GetByID(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profileView(p))
}

// Logout handles POST /api/v1/auth/logout.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = h.store.DeleteSession(r.Context(), token)
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles PUT /api/v1/auth/password — change own password.
func (h *authHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "new_password is required")
		return
	}

	p, err := h.store.GetByID(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load profile")
		return
	}
	if !profile.CheckPassword(p, req.CurrentPassword) {
		if h.metrics != nil {
			h.metrics.IncAuthFailure("password_change")
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", "current password is incorrect")
		return
	}

	if _, err := h.store.Update(r.Context(), u.ID, profile.UpdateProfileInput{Password: &req.NewPassword}); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update password")
		return
	}

	h.audit.record(r, "auth.password_change", "profile", u.ID, "")
	w.WriteHeader(http.StatusNoContent)
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	return ""
}
