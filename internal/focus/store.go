package focus

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/indipro/wsp/internal/crypto"
)

// Store provides database operations for focus notes. When a cipher is
// configured the note bodies are encrypted at rest.
type Store struct {
	pool   *pgxpool.Pool
	cipher *crypto.Cipher
}

// NewStore creates a new focus-note store. cipher may be nil, in which case
// note bodies are stored in plaintext.
func NewStore(pool *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{pool: pool, cipher: cipher}
}

// Get returns the user's focus note, or (nil, nil) when none exists yet.
func (s *Store) Get(ctx context.Context, userID string) (*Note, error) {
	var focusText, pointersText string
	n := &Note{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT coalesce(focus_text, ''), coalesce(pointers_text, ''), updated_at
		 FROM focus_notes WHERE user_id = $1`, userID,
	).Scan(&focusText, &pointersText, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting focus note: %w", err)
	}

	if focusText, err = s.cipher.Decrypt(focusText); err != nil {
		return nil, fmt.Errorf("decrypting focus items: %w", err)
	}
	if n.PointersText, err = s.cipher.Decrypt(pointersText); err != nil {
		return nil, fmt.Errorf("decrypting pointers text: %w", err)
	}
	if n.Items, err = ParseItems(focusText); err != nil {
		return nil, err
	}
	return n, nil
}

// Upsert stores the user's focus note, creating the row on first write.
func (s *Store) Upsert(ctx context.Context, userID string, items []Item, pointersText string) (*Note, error) {
	focusText, err := EncodeItems(items)
	if err != nil {
		return nil, err
	}
	if focusText, err = s.cipher.Encrypt(focusText); err != nil {
		return nil, fmt.Errorf("encrypting focus items: %w", err)
	}
	storedPointers, err := s.cipher.Encrypt(pointersText)
	if err != nil {
		return nil, fmt.Errorf("encrypting pointers text: %w", err)
	}

	n := &Note{UserID: userID, PointersText: pointersText}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO focus_notes (user_id, focus_text, pointers_text, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id) DO UPDATE
		 SET focus_text = excluded.focus_text,
		     pointers_text = excluded.pointers_text,
		     updated_at = now()
		 RETURNING updated_at`,
		userID, focusText, storedPointers,
	).Scan(&n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting focus note: %w", err)
	}

	if items == nil {
		items = []Item{}
	}
	n.Items = items
	return n, nil
}
