package api

import (
	"net/http"

	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/focus"
)

// focusHandler serves the caller's own focus note. Focus notes are private:
// there is no cross-user view, so the routes carry no user id.
type focusHandler struct {
	notes *focus.Store
	audit *auditor
}

func newFocusHandler(notes *focus.Store, a *auditor) *focusHandler {
	return &focusHandler{notes: notes, audit: a}
}

// Get handles GET /api/v1/focus. A user without a stored note receives an
// empty one rather than a 404.
func (h *focusHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	n, err := h.notes.Get(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load focus note")
		return
	}
	if n == nil {
		n = &focus.Note{UserID: u.ID, Items: []focus.Item{}}
	}

	writeJSON(w, http.StatusOK, n)
}

// Put handles PUT /api/v1/focus — replace the caller's focus note.
func (h *focusHandler) Put(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req struct {
		Items        []focus.Item `json:"items"`
		PointersText string       `json:"pointers_text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	for _, item := range req.Items {
		if item.Status != "" && !item.Status.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown focus item status")
			return
		}
	}

	n, err := h.notes.Upsert(r.Context(), u.ID, req.Items, req.PointersText)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to save focus note")
		return
	}

	h.audit.record(r, "focus.update", "focus_note", u.ID, "")
	writeJSON(w, http.StatusOK, n)
}
