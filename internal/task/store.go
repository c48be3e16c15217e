package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for planned tasks.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new task store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, user_id, week_number, day, text, status, time_taken, is_priority, created_at`

func scanTask(scan func(dest ...any) error) (*Task, error) {
	t := &Task{}
	err := scan(&t.ID, &t.UserID, &t.WeekNumber, &t.Day, &t.Text, &t.Status, &t.TimeTaken, &t.IsPriority, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new planned task.
func (s *Store) Create(ctx context.Context, in CreateTaskInput) (*Task, error) {
	status := in.Status
	if status == "" {
		status = StatusIncomplete
	}

	t, err := scanTask(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO tasks (id, user_id, week_number, day, text, status, time_taken, is_priority)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+taskColumns,
			uuid.NewString(), in.UserID, in.WeekNumber, in.Day, in.Text, status, in.TimeTaken, in.IsPriority,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}

// GetByID retrieves a task by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Task, error) {
	t, err := scanTask(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting task by id: %w", err)
	}
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*Task, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListByUser returns all of a user's tasks ordered by week, then creation time.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1
		 ORDER BY week_number, created_at`, userID)
}

// ListByUserWeekRange returns a user's tasks whose week number falls within
// [startWeek, endWeek], ordered by week, then creation time.
func (s *Store) ListByUserWeekRange(ctx context.Context, userID string, startWeek, endWeek int) ([]*Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND week_number BETWEEN $2 AND $3
		 ORDER BY week_number, created_at`, userID, startWeek, endWeek)
}

// Update performs a partial update on the task with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateTaskInput) (*Task, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.WeekNumber != nil {
		setClauses = append(setClauses, fmt.Sprintf("week_number = $%d", argIdx))
		args = append(args, *in.WeekNumber)
		argIdx++
	}
	if in.Day != nil {
		setClauses = append(setClauses, fmt.Sprintf("day = $%d", argIdx))
		args = append(args, *in.Day)
		argIdx++
	}
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
		`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, taskColumns,
	)

	t, err := scanTask(func(dest ...any) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return t, nil
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// DeleteByUser removes all tasks owned by the given user.
func (s *Store) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks for user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats aggregates a user's tasks over [startWeek, endWeek] into per-status
// counts and minutes.
func (s *Store) Stats(ctx context.Context, userID string, startWeek, endWeek int) (*Stats, error) {
	st := &Stats{}
	err := s.pool.QueryRow(ctx,
		`SELECT
			count(*),
			coalesce(sum(time_taken), 0),
			count(*) FILTER (WHERE status = 'Incomplete'),
			coalesce(sum(time_taken) FILTER (WHERE status = 'Incomplete'), 0),
			count(*) FILTER (WHERE status = 'InProgress'),
			coalesce(sum(time_taken) FILTER (WHERE status = 'InProgress'), 0),
			count(*) FILTER (WHERE status = 'Complete'),
			coalesce(sum(time_taken) FILTER (WHERE status = 'Complete'), 0),
			count(*) FILTER (WHERE status = 'Additional'),
			coalesce(sum(time_taken) FILTER (WHERE status = 'Additional'), 0)
		 FROM tasks
		 WHERE user_id = $1 AND week_number BETWEEN $2 AND $3`,
		userID, startWeek, endWeek,
	).Scan(
		&st.TotalTasks, &st.TotalMinutes,
		&st.Incomplete.Count, &st.Incomplete.Minutes,
		&st.InProgress.Count, &st.InProgress.Minutes,
		&st.Complete.Count, &st.Complete.Minutes,
		&st.Additional.Count, &st.Additional.Minutes,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating task stats: %w", err)
	}
	return st, nil
}
