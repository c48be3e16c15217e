package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/task"
)

// unplannedHandler groups the unplanned-task HTTP handlers. Unplanned tasks
// are visible to anyone who may view the board, but only the owner captures,
// edits and plans them.
type unplannedHandler struct {
	unplanned *task.UnplannedStore
	users     *usersHandler
	metrics   *metrics.Metrics
	audit     *auditor
}

func newUnplannedHandler(unplanned *task.UnplannedStore, users *usersHandler, m *metrics.Metrics, a *auditor) *unplannedHandler {
	return &unplannedHandler{unplanned: unplanned, users: users, metrics: m, audit: a}
}

// List handles GET /api/v1/users/{id}/unplanned.
func (h *unplannedHandler) List(w http.ResponseWriter, r *http.Request) {
	_, viewing := h.users.resolveBoard(w, r)
	if viewing == nil {
		return
	}

	tasks, err := h.unplanned.ListByUser(r.Context(), viewing.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list unplanned tasks")
		return
	}
	if tasks == nil {
		tasks = []*task.UnplannedTask{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unplanned_tasks": tasks,
	})
}

// Create handles POST /api/v1/users/{id}/unplanned. Capturing is owner-only.
func (h *unplannedHandler) Create(w http.ResponseWriter, r *http.Request) {
	current, viewing := h.users.resolveBoard(w, r)
	if viewing == nil {
		return
	}
	if viewing.ID != current.ID {
		writeError(w, http.StatusForbidden, "forbidden", "only the board owner may capture unplanned tasks")
		return
	}

	var req struct {
		Text       string      `json:"text"`
		Status     task.Status `json:"status"`
		TimeTaken  int         `json:"time_taken"`
		IsPriority bool        `json:"is_priority"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "text is required")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown task status")
		return
	}
	if req.TimeTaken < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "time_taken must not be negative")
		return
	}

	u, err := h.unplanned.Create(r.Context(), task.CreateUnplannedInput{
		UserID:     viewing.ID,
		Text:       req.Text,
		Status:     req.Status,
		TimeTaken:  req.TimeTaken,
		IsPriority: req.IsPriority,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create unplanned task")
		return
	}

	h.audit.record(r, "unplanned.create", "unplanned_task", u.ID, "")
	writeJSON(w, http.StatusCreated, u)
}

// resolveOwn loads the unplanned task addressed by {taskID} and verifies the
// caller owns it.
func (h *unplannedHandler) resolveOwn(w http.ResponseWriter, r *http.Request) *task.UnplannedTask {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return nil
	}

	id := chi.URLParam(r, "taskID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "task id is required")
		return nil
	}

	u, err := h.unplanned.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "unplanned task not found")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load unplanned task")
		return nil
	}

	if u.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "forbidden", "only the owner may modify unplanned tasks")
		return nil
	}
	return u
}

// Update handles PUT /api/v1/unplanned/{taskID}.
func (h *unplannedHandler) Update(w http.ResponseWriter, r *http.Request) {
	u := h.resolveOwn(w, r)
	if u == nil {
		return
	}

	var input task.UpdateUnplannedInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.Text != nil && *input.Text == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "text must not be empty")
		return
	}
	if input.Status != nil && !input.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown task status")
		return
	}
	if input.TimeTaken != nil && *input.TimeTaken < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "time_taken must not be negative")
		return
	}

	updated, err := h.unplanned.Update(r.Context(), u.ID, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update unplanned task")
		return
	}

	h.audit.record(r, "unplanned.update", "unplanned_task", u.ID, "")
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/unplanned/{taskID}.
func (h *unplannedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u := h.resolveOwn(w, r)
	if u == nil {
		return
	}

	if err := h.unplanned.Delete(r.Context(), u.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete unplanned task")
		return
	}

	h.audit.record(r, "unplanned.delete", "unplanned_task", u.ID, "")
	w.WriteHeader(http.StatusNoContent)
}

// Plan handles POST /api/v1/unplanned/{taskID}/plan. The unplanned task is
// moved onto the owner's board in one transaction; it either appears in the
// chosen week and day or stays in the unplanned list untouched.
func (h *unplannedHandler) Plan(w http.ResponseWriter, r *http.Request) {
	u := h.resolveOwn(w, r)
	if u == nil {
		return
	}

	var req struct {
		WeekNumber int      `json:"week_number"`
		Day        task.Day `json:"day"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.WeekNumber < 1 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "week_number must be positive")
		return
	}
	if !req.Day.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "day must be a weekday name")
		return
	}

	t, err := h.unplanned.Plan(r.Context(), u.ID, req.WeekNumber, req.Day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "unplanned task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to plan task")
		return
	}

	if h.metrics != nil {
		h.metrics.TasksPlannedTotal.Inc()
	}
	h.audit.record(r, "unplanned.plan", "task", t.ID, "from "+u.ID)

	writeJSON(w, http.StatusCreated, t)
}
