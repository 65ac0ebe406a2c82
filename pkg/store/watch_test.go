package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/nag/pkg/reconcile"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func (t testConfig) UserID() string {
	return "test-user"
}

func TestPersistenceRoundTrip(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	row := reconcile.Row{
		CreatedAt: "2024-03-01T10:00:00Z",
		UserID:    "test-user",
		Payload:   map[string]any{"workName": "rent", "action": "create"},
	}
	if err := p.Append(row); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := p.Rows(context.Background())
	if len(rows) != 1 {
		t.Fatalf("row count: %d", len(rows))
	}
	got := rows[0]
	if got.Source != SourceNag {
		t.Fatalf("source: %q", got.Source)
	}
	if got.CreatedAt != row.CreatedAt || got.UserID != row.UserID {
		t.Fatalf("row fields: %+v", got)
	}
	if got.ID == "" {
		t.Fatal("id not derived")
	}
	payload, ok := got.Payload.(map[string]any)
	if !ok || payload["workName"] != "rent" {
		t.Fatalf("payload: %v", got.Payload)
	}

	counts := p.SourceCounts(context.Background())
	if counts[SourceNag] != 1 {
		t.Fatalf("source counts: %v", counts)
	}
}

func TestPersistenceRowsOrderedByCreatedAt(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	times := []string{
		"2024-03-02T10:00:00Z",
		"2024-03-01T10:00:00Z",
		"2024-03-03T10:00:00Z",
	}
	for _, at := range times {
		if err := p.Append(reconcile.Row{CreatedAt: at, UserID: "u", Payload: map[string]any{"at": at}}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows := p.Rows(context.Background())
	if len(rows) != 3 {
		t.Fatalf("row count: %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt < rows[i-1].CreatedAt {
			t.Fatalf("rows out of order: %+v", rows)
		}
	}
}

func TestPersistenceWatchEmitsRowChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	row := reconcile.Row{
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		UserID:    "test-user",
		Payload:   map[string]any{"workName": "rent", "action": "create"},
	}
	if err := p.Append(row); err != nil {
		t.Fatalf("append: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventLogInvalidated {
				return
			}
			if evt.Type == EventRowsChanged {
				if evt.Source != SourceNag {
					t.Fatalf("expected source %q, got %q", SourceNag, evt.Source)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for row change event")
		}
	}
}
