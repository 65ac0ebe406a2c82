package reconcile

import (
	"fmt"
	"testing"
)

const validIconPNG = "aGVsbG8gd29ybGQhIQ=="

func payload(work, action string) map[string]any {
	return map[string]any{
		"workName":             work,
		"nagText":              "text for " + work,
		"bucket":               "Work",
		"mode":                 "ONE_TIME",
		"weight":               float64(50),
		"latenessDays":         float64(7),
		"oneTimeEpochMillis":   float64(1700000000000),
		"createdAtEpochMillis": float64(1690000000000),
		"action":               action,
	}
}

func TestParsePayload(t *testing.T) {
	direct := map[string]any{"workName": "a"}
	if got, ok := ParsePayload(direct); !ok || got["workName"] != "a" {
		t.Fatalf("direct object: %v %v", got, ok)
	}

	if got, ok := ParsePayload(`{"workName":"a"}`); !ok || got["workName"] != "a" {
		t.Fatalf("json string: %v %v", got, ok)
	}

	wrapped := map[string]any{"payload": `{"workName":"inner"}`}
	if got, ok := ParsePayload(wrapped); !ok || got["workName"] != "inner" {
		t.Fatalf("wrapped string payload: %v %v", got, ok)
	}

	doubleWrapped := map[string]any{"payload": map[string]any{"workName": "inner"}}
	if got, ok := ParsePayload(doubleWrapped); !ok || got["workName"] != "inner" {
		t.Fatalf("wrapped object payload: %v %v", got, ok)
	}

	// An unparseable nested payload falls back to the outer object.
	fallback := map[string]any{"payload": "not json", "workName": "outer"}
	if got, ok := ParsePayload(fallback); !ok || got["workName"] != "outer" {
		t.Fatalf("fallback to outer: %v %v", got, ok)
	}

	if _, ok := ParsePayload("   "); ok {
		t.Fatal("blank string parsed")
	}
	if _, ok := ParsePayload(`["a","b"]`); ok {
		t.Fatal("json array parsed as payload")
	}
	if _, ok := ParsePayload(42); ok {
		t.Fatal("number parsed as payload")
	}
}

func TestReplayLastWriteWins(t *testing.T) {
	first := payload("rent", "create")
	second := payload("rent", "update")
	second["nagText"] = "updated text"

	result := Replay([]Row{
		{CreatedAt: "2024-01-02T00:00:00Z", Payload: second},
		{CreatedAt: "2024-01-01T00:00:00Z", Payload: first},
	})
	if len(result.Nags) != 1 {
		t.Fatalf("nag count: %d", len(result.Nags))
	}
	if got := result.Nags["rent"].Text; got != "updated text" {
		t.Fatalf("last write should win, got %q", got)
	}
	if result.PayloadRows != 2 || result.ValidNagRows != 2 {
		t.Fatalf("counters: %d/%d", result.PayloadRows, result.ValidNagRows)
	}
}

func TestReplayDeleteRemoves(t *testing.T) {
	result := Replay([]Row{
		{CreatedAt: "2024-01-01T00:00:00Z", Payload: payload("rent", "create")},
		{CreatedAt: "2024-01-02T00:00:00Z", Payload: payload("rent", "delete")},
		{CreatedAt: "2024-01-03T00:00:00Z", Payload: payload("other", "create")},
	})
	if _, ok := result.Nags["rent"]; ok {
		t.Fatal("deleted nag survived replay")
	}
	if _, ok := result.Nags["other"]; !ok {
		t.Fatal("unrelated nag missing")
	}
}

func TestReplaySkipsCorruptRows(t *testing.T) {
	bad := payload("broken", "create")
	delete(bad, "nagText")

	result := Replay([]Row{
		{CreatedAt: "2024-01-01T00:00:00Z", Payload: "{{{not json"},
		{CreatedAt: "2024-01-02T00:00:00Z", Payload: bad},
		{CreatedAt: "2024-01-03T00:00:00Z", Payload: payload("good", "create")},
	})
	if len(result.Nags) != 1 {
		t.Fatalf("nag count: %d", len(result.Nags))
	}
	if result.PayloadRows != 2 {
		t.Fatalf("payload rows: %d", result.PayloadRows)
	}
	if result.ValidNagRows != 1 {
		t.Fatalf("valid nag rows: %d", result.ValidNagRows)
	}
}

func TestReplayRowIconOverridesPayload(t *testing.T) {
	result := Replay([]Row{
		{
			CreatedAt:     "2024-01-01T00:00:00Z",
			Payload:       payload("rent", "create"),
			IconPNGBase64: validIconPNG,
		},
	})
	if got := result.Nags["rent"].IconPNGBase64; got != validIconPNG {
		t.Fatalf("row icon not applied: %q", got)
	}
}

func TestPrimaryPrefersLargestSource(t *testing.T) {
	rows := []Row{
		{Source: "nag"}, {Source: "nag"}, {Source: "events"},
	}
	if got := Primary(rows); got != "nag" {
		t.Fatalf("primary: %q", got)
	}

	// Ties resolve deterministically.
	tied := []Row{{Source: "events"}, {Source: "nag"}}
	if got := Primary(tied); got != "events" {
		t.Fatalf("tied primary: %q", got)
	}
}

func TestDedupPrefersIconThenPrimary(t *testing.T) {
	p := payload("rent", "create")
	rows := []Row{
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "events"},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "nag", IconPNGBase64: validIconPNG},
	}
	out := Dedup(rows, "events")
	if len(out) != 1 {
		t.Fatalf("dedup count: %d", len(out))
	}
	if out[0].IconPNGBase64 != validIconPNG {
		t.Fatal("icon-bearing duplicate should win")
	}

	// No icons anywhere: the primary source wins.
	rows = []Row{
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "events"},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "nag"},
	}
	out = Dedup(rows, "nag")
	if len(out) != 1 || out[0].Source != "nag" {
		t.Fatalf("primary-source duplicate should win: %+v", out)
	}

	// An icon-bearing row is never displaced by a later icon-less primary row.
	rows = []Row{
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "events", IconPNGBase64: validIconPNG},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: p, Source: "nag"},
	}
	out = Dedup(rows, "nag")
	if len(out) != 1 || out[0].Source != "events" {
		t.Fatalf("icon row displaced: %+v", out)
	}
}

func TestDedupKeySeparatesDistinctEvents(t *testing.T) {
	rows := []Row{
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: payload("a", "create"), Source: "nag"},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u2", Payload: payload("a", "create"), Source: "nag"},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: payload("b", "create"), Source: "nag"},
		{CreatedAt: "2024-01-02T00:00:00Z", UserID: "u1", Payload: payload("a", "create"), Source: "nag"},
	}
	out := Dedup(rows, "nag")
	if len(out) != 4 {
		t.Fatalf("distinct events merged: %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].CreatedAt < out[i-1].CreatedAt {
			t.Fatalf("dedup output not ordered: %+v", out)
		}
	}
}

func TestDedupCanonicalizesPayloadFormatting(t *testing.T) {
	// Same logical payload, one as an object and one as differently-keyed
	// map ordering; canonical bytes must match.
	a := map[string]any{"workName": "x", "weight": float64(50)}
	b := map[string]any{"weight": float64(50), "workName": "x"}
	rows := []Row{
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: a, Source: "nag"},
		{CreatedAt: "2024-01-01T00:00:00Z", UserID: "u1", Payload: b, Source: "events"},
	}
	if out := Dedup(rows, "nag"); len(out) != 1 {
		t.Fatalf("map ordering broke canonicalization: %d rows", len(out))
	}
}

func TestReplayScalesToManyKeys(t *testing.T) {
	var rows []Row
	for i := 0; i < 200; i++ {
		rows = append(rows, Row{
			CreatedAt: fmt.Sprintf("2024-01-01T00:%02d:%02dZ", i/60, i%60),
			Payload:   payload(fmt.Sprintf("work-%03d", i), "create"),
		})
	}
	result := Replay(rows)
	if len(result.Nags) != 200 {
		t.Fatalf("nag count: %d", len(result.Nags))
	}
}
