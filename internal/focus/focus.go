// Package focus holds the per-user focus note: a small list of tracked
// focus items plus a free-form pointers text, both editable only by the
// owner.
package focus

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemStatus is a focus item's traffic-light state.
type ItemStatus string

const (
	StatusNone   ItemStatus = "none"
	StatusRed    ItemStatus = "red"
	StatusYellow ItemStatus = "yellow"
	StatusGreen  ItemStatus = "green"
)

// Valid reports whether s is one of the known item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusNone, StatusRed, StatusYellow, StatusGreen:
		return true
	}
	return false
}

// Item is a single tracked entry on a user's focus note.
type Item struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Status ItemStatus `json:"status"`
}

// Note is the full focus note for one user.
type Note struct {
	UserID       string    `json:"user_id"`
	Items        []Item    `json:"items"`
	PointersText string    `json:"pointers_text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ParseItems decodes the stored focus-item list. An empty payload yields an
// empty, non-nil slice so callers always get a list.
func ParseItems(raw string) ([]Item, error) {
	if raw == "" {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing focus items: %w", err)
	}
	for i := range items {
		if items[i].Status == "" {
			items[i].Status = StatusNone
		}
		if !items[i].Status.Valid() {
			return nil, fmt.Errorf("focus item %q: unknown status %q", items[i].ID, items[i].Status)
		}
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// EncodeItems serializes a focus-item list for storage.
func EncodeItems(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding focus items: %w", err)
	}
	return string(data), nil
}
