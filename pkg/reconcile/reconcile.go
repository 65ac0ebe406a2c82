// Package reconcile rebuilds the current nag set from an append-only log
// of event rows. Every refresh replays the full row set; nothing is
// applied incrementally.
package reconcile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/nag/pkg/nag"
)

// Row is one raw event as fetched from a backing source. CreatedAt is the
// source timestamp string; rows order lexically by it, which holds for
// RFC 3339 timestamps from a single writer.
type Row struct {
	ID            string
	CreatedAt     string
	UserID        string
	Payload       any
	IconPNGBase64 string
	Source        string
}

// Result is the outcome of a replay. The counters are diagnostic only:
// PayloadRows counts rows whose payload parsed, ValidNagRows counts rows
// that yielded a valid nag.
type Result struct {
	Nags         map[string]*nag.Nag
	PayloadRows  int
	ValidNagRows int
}

// ParsePayload extracts the payload object from a row value. String
// payloads get one JSON parse; an object wrapping a nested "payload"
// field is unwrapped one level. Anything else is not a payload.
func ParsePayload(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		if nested, ok := v["payload"]; ok {
			switch nested.(type) {
			case map[string]any, string:
				if inner, ok := ParsePayload(nested); ok {
					return inner, true
				}
			}
		}
		return v, true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil, false
		}
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil, false
		}
		obj, ok := parsed.(map[string]any)
		return obj, ok
	default:
		return nil, false
	}
}

// canonicalPayload renders a payload value as stable bytes for duplicate
// detection. json.Marshal sorts map keys, so equal objects canonicalize
// identically regardless of source formatting.
func canonicalPayload(value any) string {
	switch value.(type) {
	case map[string]any, []any:
		if data, err := json.Marshal(value); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(value)
}

// Primary returns the source contributing the most rows. Ties resolve to
// the lexically smaller source name so the choice is stable across runs.
func Primary(rows []Row) string {
	counts := map[string]int{}
	for _, row := range rows {
		counts[row.Source]++
	}
	primary := ""
	best := -1
	for source, count := range counts {
		if count > best || (count == best && source < primary) {
			primary = source
			best = count
		}
	}
	return primary
}

// Dedup collapses rows representing the same logical event fetched from
// more than one source. Duplicates share (created-at, user, canonical
// payload); among duplicates a row carrying valid inline icon bytes wins,
// then a row from the primary source.
func Dedup(rows []Row, primary string) []Row {
	type key struct {
		createdAt string
		userID    string
		payload   string
	}
	seen := map[key]int{}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		k := key{row.CreatedAt, row.UserID, canonicalPayload(row.Payload)}
		idx, ok := seen[k]
		if !ok {
			seen[k] = len(out)
			out = append(out, row)
			continue
		}
		existing := out[idx]
		rowHasIcon := nag.NormalizeIconPNG(row.IconPNGBase64) != ""
		existingHasIcon := nag.NormalizeIconPNG(existing.IconPNGBase64) != ""
		if rowHasIcon && !existingHasIcon {
			out[idx] = row
			continue
		}
		if rowHasIcon == existingHasIcon && row.Source == primary && existing.Source != primary {
			out[idx] = row
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Replay folds rows in creation order into the current nag set. Rows that
// fail to parse at either step are skipped without error; one corrupt
// historical event never blocks reconstruction. A delete action removes
// the key, every other action replaces it, last write wins.
func Replay(rows []Row) Result {
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt < ordered[j].CreatedAt
	})

	result := Result{Nags: map[string]*nag.Nag{}}
	for _, row := range ordered {
		payload, ok := ParsePayload(row.Payload)
		if !ok {
			continue
		}
		result.PayloadRows++
		n, err := nag.FromPayload(payload)
		if err != nil {
			continue
		}
		if icon := nag.NormalizeIconPNG(row.IconPNGBase64); icon != "" {
			n.IconPNGBase64 = icon
		}
		result.ValidNagRows++

		action := ""
		if raw, ok := payload["action"]; ok {
			action = strings.ToLower(strings.TrimSpace(fmt.Sprint(raw)))
		}
		if action == string(nag.ActionDelete) {
			delete(result.Nags, n.WorkName)
		} else {
			result.Nags[n.WorkName] = n
		}
	}
	return result
}
