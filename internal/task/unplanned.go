package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnplannedStore provides database operations for unplanned tasks.
type UnplannedStore struct {
	pool *pgxpool.Pool
}

// NewUnplannedStore creates a new unplanned-task store.
func NewUnplannedStore(pool *pgxpool.Pool) *UnplannedStore {
	return &UnplannedStore{pool: pool}
}

const unplannedColumns = `id, user_id, text, status, time_taken, is_priority, created_at`

func scanUnplanned(scan func(dest ...any) error) (*UnplannedTask, error) {
	u := &UnplannedTask{}
	err := scan(&u.ID, &u.UserID, &u.Text, &u.Status, &u.TimeTaken, &u.IsPriority, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new unplanned task.
func (s *UnplannedStore) Create(ctx context.Context, in CreateUnplannedInput) (*UnplannedTask, error) {
	status := in.Status
	if status == "" {
		status = StatusIncomplete
	}

	u, err := scanUnplanned(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO unplanned_tasks (id, user_id, text, status, time_taken, is_priority)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+unplannedColumns,
			uuid.NewString(), in.UserID, in.Text, status, in.TimeTaken, in.IsPriority,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating unplanned task: %w", err)
	}
	return u, nil
}

// GetByID retrieves an unplanned task by primary key.
func (s *UnplannedStore) GetByID(ctx context.Context, id string) (*UnplannedTask, error) {
	u, err := scanUnplanned(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT `+unplannedColumns+` FROM unplanned_tasks WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting unplanned task by id: %w", err)
	}
	return u, nil
}

// ListByUser returns a user's unplanned tasks, oldest first.
func (s *UnplannedStore) ListByUser(ctx context.Context, userID string) ([]*UnplannedTask, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+unplannedColumns+` FROM unplanned_tasks
		 WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing unplanned tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*UnplannedTask
	for rows.Next() {
		u, err := scanUnplanned(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning unplanned task row: %w", err)
		}
		tasks = append(tasks, u)
	}
	return tasks, rows.Err()
}

// Update performs a partial update on the unplanned task with the given id.
func (s *UnplannedStore) Update(ctx context.Context, id string, in UpdateUnplannedInput) (*UnplannedTask, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Text != nil {
		setClauses = append(setClauses, fmt.Sprintf("text = $%d", argIdx))
		args = append(args, *in.Text)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}
	if in.TimeTaken != nil {
		setClauses = append(setClauses, fmt.Sprintf("time_taken = $%d", argIdx))
		args = append(args, *in.TimeTaken)
		argIdx++
	}
	if in.IsPriority != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_priority = $%d", argIdx))
		args = append(args, *in.IsPriority)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE unplanned_tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, unplannedColumns,
	)

	u, err := scanUnplanned(func(dest ...any) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating unplanned task: %w", err)
	}
	return u, nil
}

// Delete removes an unplanned task by id.
func (s *UnplannedStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM unplanned_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting unplanned task: %w", err)
	}
	return nil
}

// Plan converts an unplanned task into a planned task in a single
// transaction: the task row is inserted with the given week/day and the
// unplanned row removed. Either both happen or neither does.
func (s *UnplannedStore) Plan(ctx context.Context, id string, weekNumber int, day Day) (*Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning plan transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t := &Task{}
	err = tx.QueryRow(ctx,
		`INSERT INTO tasks (id, user_id, week_number, day, text, status, time_taken, is_priority)
		 SELECT $1, user_id, $2, $3, text, status, time_taken, is_priority
		 FROM unplanned_tasks WHERE id = $4
		 RETURNING `+taskColumns,
		uuid.NewString(), weekNumber, day, id,
	).Scan(&t.ID, &t.UserID, &t.WeekNumber, &t.Day, &t.Text, &t.Status, &t.TimeTaken, &t.IsPriority, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("planning unplanned task: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM unplanned_tasks WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("removing planned-away task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing plan transaction: %w", err)
	}
	return t, nil
}
