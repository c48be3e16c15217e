package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// mockStore records all batches that were inserted.
type mockStore struct {
	mu      sync.Mutex
	batches [][]Event
}

func (m *mockStore) BatchInsert(ctx context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Event, len(events))
	copy(cp, events)
	m.batches = append(m.batches, cp)
	return nil
}

func (m *mockStore) totalInserted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func sampleEvent(action string) Event {
	return Event{
		ActorID:      "user-1",
		ActorRole:    "admin",
		Action:       action,
		ResourceType: "task",
		ResourceID:   "task-1",
		RequestID:    "req-1",
		IP:           "203.0.113.9",
		CreatedAt:    time.Now(),
	}
}

func TestCollector_RecordAddsToBuffer(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour) // large batch size, long interval

	c.Record(sampleEvent("task.create"))
	c.Record(sampleEvent("task.update"))

	c.mu.Lock()
	bufLen := len(c.buffer)
	c.mu.Unlock()

	if bufLen != 2 {
		t.Fatalf("expected buffer length 2, got %d", bufLen)
	}

	if ms.totalInserted() != 0 {
		t.Fatalf("expected 0 inserted before flush, got %d", ms.totalInserted())
	}
}

func TestCollector_RecordStampsCreatedAt(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	c.Record(Event{ActorID: "user-1", Action: "auth.login"})

	c.mu.Lock()
	stamped := !c.buffer[0].CreatedAt.IsZero()
	c.mu.Unlock()

	if !stamped {
		t.Fatal("expected Record to stamp a zero CreatedAt")
	}
}

func TestCollector_FlushOnBatchSize(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		records   int
		wantFlush int // number of total events flushed
	}{
		{
			name:      "exact batch size triggers flush",
			batchSize: 3,
			records:   3,
			wantFlush: 3,
		},
		{
			name:      "under batch size does not flush",
			batchSize: 5,
			records:   3,
			wantFlush: 0,
		},
		{
			name:      "double batch size triggers two flushes",
			batchSize: 2,
			records:   4,
			wantFlush: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{}
			c := NewCollector(ms, tt.batchSize, time.Hour)

			for i := 0; i < tt.records; i++ {
				c.Record(sampleEvent("task.create"))
			}

			// Allow any concurrent flush goroutine to complete.
			time.Sleep(50 * time.Millisecond)

			got := ms.totalInserted()
			if got != tt.wantFlush {
				t.Errorf("expected %d flushed events, got %d", tt.wantFlush, got)
			}
		})
	}
}

func TestCollector_StopDoesFinalFlush(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Start(ctx)

	c.Record(sampleEvent("auth.login"))
	c.Record(sampleEvent("task.create"))
	c.Record(sampleEvent("task.delete"))

	// Stop triggers a final flush.
	c.Stop()

	// Give the goroutine a moment to process the final flush.
	time.Sleep(100 * time.Millisecond)

	got := ms.totalInserted()
	if got != 3 {
		t.Fatalf("expected 3 events after Stop, got %d", got)
	}
}

func TestCollector_TimerFlush(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Start(ctx)

	c.Record(sampleEvent("auth.login"))

	// Wait for the flush interval to fire.
	time.Sleep(200 * time.Millisecond)

	got := ms.totalInserted()
	if got != 1 {
		t.Fatalf("expected 1 event after timer flush, got %d", got)
	}

	c.Stop()
}

func TestCollector_ConcurrentRecords(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 10, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(sampleEvent("task.update"))
		}()
	}
	wg.Wait()

	c.Stop()
	time.Sleep(100 * time.Millisecond)

	got := ms.totalInserted()
	if got != 50 {
		t.Fatalf("expected 50 events, got %d", got)
	}
}

func TestCursorRoundtrip(t *testing.T) {
	ts := time.Date(2026, 3, 9, 12, 30, 0, 123456789, time.UTC)
	cursor := encodeCursor(ts, "evt-42")

	gotTS, gotID, err := decodeCursor(cursor)
	if err != nil {
		t.Fatalf("decodeCursor: %v", err)
	}
	if !gotTS.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", gotTS, ts)
	}
	if gotID != "evt-42" {
		t.Errorf("id = %q, want %q", gotID, "evt-42")
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if _, _, err := decodeCursor("!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, _, err := decodeCursor("bm8tc2VwYXJhdG9y"); err == nil {
		t.Fatal("expected error for cursor without separator")
	}
}
