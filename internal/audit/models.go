package audit

import "time"

// Event records one privileged or data-changing action for the audit trail.
type Event struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Detail       string    `json:"detail"`
	RequestID    string    `json:"request_id"`
	IP           string    `json:"ip"`
	CreatedAt    time.Time `json:"created_at"`
}

// Query defines filters and pagination for reading the audit trail.
type Query struct {
	ActorID string    `json:"actor_id,omitempty"`
	Action  string    `json:"action,omitempty"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Cursor  string    `json:"cursor,omitempty"`
	Limit   int       `json:"limit"`
}
