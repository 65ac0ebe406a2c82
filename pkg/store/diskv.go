package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/nag/pkg/reconcile"
	"tableflip.dev/nag/pkg/timeutil"
)

// Event sources. The primary source holds rows written by this client;
// the legacy source exists so rows synced in from an older layout still
// load and deduplicate.
const (
	SourceNag    = "nag"
	SourceLegacy = "events"
)

// Persistence is the append-only event log contract.
type Persistence interface {
	// Rows returns every stored event row across all sources.
	Rows(ctx context.Context) []reconcile.Row
	// Append writes a new event row to the primary source.
	Append(row reconcile.Row) error
	// SourceCounts reports rows per source, for primary-source election.
	SourceCounts(ctx context.Context) map[string]int
	// Watch streams change notifications until ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// storedRow is the on-disk shape of one event.
type storedRow struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	UserID        string `json:"user_id"`
	Payload       any    `json:"payload"`
	IconPNGBase64 string `json:"icon_png_base64,omitempty"`
}

func (p *persistence) read(key string) (reconcile.Row, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return reconcile.Row{}, err
	}
	var sr storedRow
	if err := json.Unmarshal(val, &sr); err != nil {
		return reconcile.Row{}, err
	}
	pk := keyToPathTransform(key)
	if sr.ID == "" {
		sr.ID = pk.FileName
	}
	return reconcile.Row{
		ID:            sr.ID,
		CreatedAt:     sr.CreatedAt,
		UserID:        sr.UserID,
		Payload:       sr.Payload,
		IconPNGBase64: sr.IconPNGBase64,
		Source:        pk.Path[0],
	}, nil
}

func (p *persistence) Rows(ctx context.Context) []reconcile.Row {
	all := make([]reconcile.Row, 0)
	for key := range p.d.Keys(ctx.Done()) {
		row, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, row)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt != all[j].CreatedAt {
			return all[i].CreatedAt < all[j].CreatedAt
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *persistence) Append(row reconcile.Row) error {
	if row.CreatedAt == "" {
		row.CreatedAt = timeutil.Timestamp()
	}
	if row.Source == "" {
		row.Source = SourceNag
	}
	sr := storedRow{
		ID:            row.ID,
		CreatedAt:     row.CreatedAt,
		UserID:        row.UserID,
		Payload:       row.Payload,
		IconPNGBase64: row.IconPNGBase64,
	}
	if sr.ID == "" {
		b, _ := json.Marshal(sr)
		id := md5.Sum(b)
		sr.ID = fmt.Sprintf("%x", id[:8])
	}
	data, err := json.Marshal(sr)
	if err != nil {
		return fmt.Errorf("store: marshal event row: %w", err)
	}
	if err := p.d.Write(toKey(row.Source, sr.CreatedAt, sr.ID), data); err != nil {
		return fmt.Errorf("store: write event row: %w", err)
	}
	return nil
}

func (p *persistence) SourceCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		counts[pk.Path[0]]++
	}
	return counts
}

const layoutISO = "2006-01-02"

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return &diskv.PathKey{Path: []string{SourceNag}, FileName: s}
	}
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `source-date-id`
func toKey(source, createdAt, id string) string {
	day := time.Now().UTC().Format(layoutISO)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		day = t.UTC().Format(layoutISO)
	}
	return fmt.Sprintf("%s-%s-%s", source, day, id)
}

var errNoBasePath = errors.New("store: base path unknown")
