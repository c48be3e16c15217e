package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/indipro/wsp/internal/access"
	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/task"
)

// tasksHandler groups the planned-task HTTP handlers.
type tasksHandler struct {
	tasks   *task.Store
	users   *usersHandler
	metrics *metrics.Metrics
	audit   *auditor
}

func newTasksHandler(tasks *task.Store, users *usersHandler, m *metrics.Metrics, a *auditor) *tasksHandler {
	return &tasksHandler{tasks: tasks, users: users, metrics: m, audit: a}
}

// parseWeekRange reads optional start_week/end_week query parameters,
// defaulting to the full fiscal year.
func parseWeekRange(r *http.Request) (startWeek, endWeek int, err error) {
	startWeek, endWeek = 1, 52

	if raw := r.URL.Query().Get("start_week"); raw != "" {
		startWeek, err = strconv.Atoi(raw)
		if err != nil || startWeek < 1 {
			return 0, 0, errors.New("start_week must be a positive integer")
		}
	}
	if raw := r.URL.Query().Get("end_week"); raw != "" {
		endWeek, err = strconv.Atoi(raw)
		if err != nil || endWeek < 1 {
			return 0, 0, errors.New("end_week must be a positive integer")
		}
	}
	if endWeek < startWeek {
		return 0, 0, errors.New("end_week must not be before start_week")
	}
	return startWeek, endWeek, nil
}

// List handles GET /api/v1/users/{id}/tasks?start_week=&end_week=.
func (h *tasksHandler) List(w http.ResponseWriter, r *http.Request) {
	_, viewing := h.users.resolveBoard(w, r)
	if viewing == nil {
		return
	}

	startWeek, endWeek, err := parseWeekRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return
	}

	tasks, err := h.tasks.ListByUserWeekRange(r.Context(), viewing.ID, startWeek, endWeek)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

// Create handles POST /api/v1/users/{id}/tasks. Adding to someone else's
// board requires the add permission for that board.
func (h *tasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	current, viewing := h.users.resolveBoard(w, r)
	if viewing == nil {
		return
	}

	perms := access.ComputePermissions(current, viewing, nil)
	if !perms.CanAddTask {
		writeError(w, http.StatusForbidden, "forbidden", "no permission to add tasks to this board")
		return
	}

	var req struct {
		WeekNumber int         `json:"week_number"`
		Day        task.Day    `json:"day"`
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
	if req.WeekNumber < 1 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "week_number must be positive")
		return
	}
	if !req.Day.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "day must be a weekday name")
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

	t, err := h.tasks.Create(r.Context(), task.CreateTaskInput{
		UserID:     viewing.ID,
		WeekNumber: req.WeekNumber,
		Day:        req.Day,
		Text:       req.Text,
		Status:     req.Status,
		TimeTaken:  req.TimeTaken,
		IsPriority: req.IsPriority,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create task")
		return
	}

	if h.metrics != nil {
		h.metrics.TasksCreatedTotal.Inc()
	}
	h.audit.record(r, "task.create", "task", t.ID, "board "+viewing.ID)

	writeJSON(w, http.StatusCreated, t)
}

// resolveOwnTask loads the task addressed by {taskID} and verifies the caller
// owns its board. Editing and deleting are reserved for the board owner.
func (h *tasksHandler) resolveOwnTask(w http.ResponseWriter, r *http.Request) *task.Task {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return nil
	}

	id := chi.URLParam(r, "taskID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "task id is required")
		return nil
	}

	t, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load task")
		return nil
	}

	if t.UserID != u.ID {
		writeError(w, http.StatusForbidden, "forbidden", "only the board owner may modify tasks")
		return nil
	}
	return t
}

// Update handles PUT /api/v1/tasks/{taskID}.
func (h *tasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	t := h.resolveOwnTask(w, r)
	if t == nil {
		return
	}

	var input task.UpdateTaskInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.WeekNumber != nil && *input.WeekNumber < 1 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "week_number must be positive")
		return
	}
	if input.Day != nil && !input.Day.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "day must be a weekday name")
		return
	}
	if input.Status != nil && !input.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown task status")
		return
	}
	if input.Text != nil && *input.Text == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "text must not be empty")
		return
	}
	if input.TimeTaken != nil && *input.TimeTaken < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "time_taken must not be negative")
		return
	}

	updated, err := h.tasks.Update(r.Context(), t.ID, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task")
		return
	}

	h.audit.record(r, "task.update", "task", t.ID, "")
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/tasks/{taskID}.
func (h *tasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t := h.resolveOwnTask(w, r)
	if t == nil {
		return
	}

	if err := h.tasks.Delete(r.Context(), t.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete task")
		return
	}

	h.audit.record(r, "task.delete", "task", t.ID, "")
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/users/{id}/stats?start_week=&end_week=.
func (h *tasksHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_, viewing := h.users.resolveBoard(w, r)
	if viewing == nil {
		return
	}

	startWeek, endWeek, err := parseWeekRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return
	}

	stats, err := h.tasks.Stats(r.Context(), viewing.ID, startWeek, endWeek)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to aggregate stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
