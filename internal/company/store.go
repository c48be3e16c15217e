package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCompanyInUse is returned by Delete when profiles still reference the
// company.
var ErrCompanyInUse = errors.New("company still has profiles assigned")

// Store provides database operations for companies.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new company store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanCompany(scan func(dest ...any) error) (*Company, error) {
	c := &Company{}
	err := scan(&c.ID, &c.Name, &c.CalendarStartMonth, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new company.
func (s *Store) Create(ctx context.Context, in CreateCompanyInput) (*Company, error) {
	c, err := scanCompany(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO companies (id, name, calendar_start_month)
			 VALUES ($1, $2, $3)
			 RETURNING id, name, calendar_start_month, created_at`,
			uuid.NewString(), in.Name, in.CalendarStartMonth,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}
	return c, nil
}

// GetByID retrieves a company by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Company, error) {
	c, err := scanCompany(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT id, name, calendar_start_month, created_at
			 FROM companies WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting company by id: %w", err)
	}
	return c, nil
}

// List returns all companies ordered by name.
func (s *Store) List(ctx context.Context) ([]*Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, calendar_start_month, created_at
		 FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c, err := scanCompany(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Delete removes a company by id. It refuses with ErrCompanyInUse while any
// profile still references the company.
func (s *Store) Delete(ctx context.Context, id string) error {
	var inUse bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE company_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("checking company references: %w", err)
	}
	if inUse {
		return ErrCompanyInUse
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	return nil
}
