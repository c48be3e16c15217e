package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for the audit trail.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BatchInsert writes a slice of events to the database in a single multi-row
// INSERT statement. It is a no-op when events is empty.
func (s *Store) BatchInsert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	const cols = 9 // number of columns per row (excluding server-generated id)
	args := make([]any, 0, len(events)*cols)
	rows := make([]string, 0, len(events))

	for i, e := range events {
		base := i * cols
		rows = append(rows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		args = append(args,
			e.ActorID,
			e.ActorRole,
			e.Action,
			e.ResourceType,
			e.ResourceID,
			e.Detail,
			e.RequestID,
			e.IP,
			e.CreatedAt,
		)
	}

	query := `INSERT INTO audit_events
		(actor_id, actor_role, action, resource_type, resource_id, detail,
		 request_id, ip, created_at)
		VALUES ` + strings.Join(rows, ", ")

	_, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("batch inserting audit events: %w", err)
	}

	return nil
}

// List returns a page of events matching the query filters, ordered by
// created_at DESC, id DESC. It uses cursor-based pagination and returns the
// next cursor (empty string if no more results).
func (s *Store) List(ctx context.Context, q Query) ([]*Event, string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	where, args := buildWhereClause(q)

	// Apply cursor: the cursor encodes "created_at|id".
	if q.Cursor != "" {
		ts, id, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
		n := len(args)
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		where += fmt.Sprintf(" (created_at, id) < ($%d, $%d)", n+1, n+2)
		args = append(args, ts, id)
	}

	query := `SELECT id, actor_id, actor_role, action, resource_type,
		resource_id, detail, request_id, ip, created_at
	FROM audit_events` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1) // fetch one extra to determine if there's a next page

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.ResourceType,
			&e.ResourceID, &e.Detail, &e.RequestID, &e.IP, &e.CreatedAt,
		); err != nil {
			return nil, "", fmt.Errorf("scanning audit event row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating audit event rows: %w", err)
	}

	var nextCursor string
	if len(events) > limit {
		last := events[limit-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
		events = events[:limit]
	}

	return events, nextCursor, nil
}

// buildWhereClause constructs a WHERE clause and positional arguments from a
// Query. The returned string starts with " WHERE" or is empty.
func buildWhereClause(q Query) (string, []any) {
	var conditions []string
	var args []any

	if q.ActorID != "" {
		args = append(args, q.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if q.Action != "" {
		args = append(args, q.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if !q.From.IsZero() {
		args = append(args, q.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// encodeCursor encodes a timestamp and id into an opaque cursor string.
func encodeCursor(ts time.Time, id string) string {
	raw := ts.Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor decodes an opaque cursor string into a timestamp and id.
func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decoding cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing cursor timestamp: %w", err)
	}
	return ts, parts[1], nil
}
