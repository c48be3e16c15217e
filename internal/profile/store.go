package profile

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Store provides database operations for profiles and sessions.
type Store struct {
	pool       *pgxpool.Pool
	sessionTTL time.Duration
}

// NewStore creates a new profile store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool, sessionTTL time.Duration) *Store {
	return &Store{pool: pool, sessionTTL: sessionTTL}
}

func scanProfile(scan func(dest ...any) error) (*Profile, error) {
	p := &Profile{}
	err := scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Role, &p.CompanyID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, in CreateProfileInput) (*Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}

	p, err := scanProfile(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO profiles (id, name, email, password_hash, role, company_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, name, email, password_hash, role, company_id, created_at`,
			uuid.NewString(), in.Name, in.Email, string(hash), role, in.CompanyID,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return p, nil
}

// GetByID retrieves a profile by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Profile, error) {
	p, err := scanProfile(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, role, company_id, created_at
			 FROM profiles WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting profile by id: %w", err)
	}
	return p, nil
}

// GetByEmail retrieves a profile by email address (case-insensitive).
func (s *Store) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	p, err := scanProfile(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, role, company_id, created_at
			 FROM profiles WHERE lower(email) = lower($1)`, email,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting profile by email: %w", err)
	}
	return p, nil
}

// List returns all profiles ordered by name.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, password_hash, role, company_id, created_at
		 FROM profiles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update performs a partial update on the profile with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateProfileInput) (*Profile, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, string(hash))
		argIdx++
	}
	if in.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *in.Role)
		argIdx++
	}
	if in.CompanyID != nil {
		setClauses = append(setClauses, fmt.Sprintf("company_id = $%d", argIdx))
		args = append(args, *in.CompanyID)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE id = $%d
		 RETURNING id, name, email, password_hash, role, company_id, created_at`,
		strings.Join(setClauses, ", "), argIdx,
	)

	p, err := scanProfile(func(dest ...any) error {
		return s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}

// Delete removes a profile by id. Tasks, unplanned tasks, sessions and the
// focus note cascade at the database level.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the profile's stored hash.
func CheckPassword(p *Profile, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// CreateSession creates a new session for the given profile. It returns the
// opaque plaintext token (to be sent to the client) and the stored session.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, *Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", nil, fmt.Errorf("generating session token: %w", err)
	}
	plaintext := hex.EncodeToString(b)
	tokenHash := hashToken(plaintext)

	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)

	sess := &Session{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING token_hash, user_id, created_at, expires_at`,
		tokenHash, userID, now, expiresAt,
	).Scan(&sess.TokenHash, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	return plaintext, sess, nil
}

// GetSessionProfile looks up a session by its plaintext token and returns the
// associated profile. Expired or unknown tokens yield an error.
func (s *Store) GetSessionProfile(ctx context.Context, plaintext string) (*Profile, error) {
	tokenHash := hashToken(plaintext)

	p, err := scanProfile(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT p.id, p.name, p.email, p.password_hash, p.role, p.company_id, p.created_at
			 FROM sessions s JOIN profiles p ON s.user_id = p.id
			 WHERE s.token_hash = $1 AND s.expires_at > now()`,
			tokenHash,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting session profile: %w", err)
	}
	return p, nil
}

// DeleteSession removes a session by its plaintext token.
func (s *Store) DeleteSession(ctx context.Context, plaintext string) error {
	tokenHash := hashToken(plaintext)
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CleanExpiredSessions deletes all sessions that have expired.
func (s *Store) CleanExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func hashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
