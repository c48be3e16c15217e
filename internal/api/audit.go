package api

import (
	"log/slog"
	"net/http"

	"github.com/indipro/wsp/internal/audit"
	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/metrics"
)

// auditor records data-changing actions both to the structured log and, when
// a collector is configured, to the persistent audit trail.
type auditor struct {
	collector *audit.Collector
	metrics   *metrics.Metrics
}

// record emits one audit event for the action performed in this request.
func (a *auditor) record(r *http.Request, action, resourceType, resourceID string, detail string) {
	e := audit.Event{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		RequestID:    RequestIDFromContext(r.Context()),
		IP:           clientIP(r),
	}
	if u := auth.UserFromContext(r.Context()); u != nil {
		e.ActorID = u.ID
		e.ActorRole = u.Role
	}

	slog.Info("audit",
		"action", e.Action,
		"resource_type", e.ResourceType,
		"resource_id", e.ResourceID,
		"actor_id", e.ActorID,
		"actor_role", e.ActorRole,
		"ip", e.IP,
		"request_id", e.RequestID,
	)

	if a == nil {
		return
	}
	if a.collector != nil {
		a.collector.Record(e)
	}
	if a.metrics != nil {
		a.metrics.AuditEventsTotal.Inc()
	}
}
