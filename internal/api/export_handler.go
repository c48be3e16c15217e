package api

import (
	"fmt"
	"net/http"

	"github.com/indipro/wsp/internal/export"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/task"
)

// exportHandler serves the CSV week-grid download.
type exportHandler struct {
	tasks   *task.Store
	users   *usersHandler
	metrics *metrics.Metrics
}

func newExportHandler(tasks *task.Store, users *usersHandler, m *metrics.Metrics) *exportHandler {
	return &exportHandler{tasks: tasks, users: users, metrics: m}
}

// Download handles GET /api/v1/users/{id}/export?start_week=&end_week=.
func (h *exportHandler) Download(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(viewing.Name, startWeek, endWeek)))

	if err := export.WeekRangeCSV(w, viewing, tasks, startWeek, endWeek); err != nil {
		// Headers are already out; the truncated body is all we can signal.
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.Inc()
	}
}
