package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/reconcile"
	"tableflip.dev/nag/pkg/store"
)

// MigrateLegacy copies rows from the legacy events source into the
// primary source, skipping rows the primary source already holds. It
// returns how many rows were copied. Safe to run repeatedly: the replay
// deduplicates by (created-at, user, payload) either way, migration just
// makes the primary source self-contained.
func (s *Service) MigrateLegacy(ctx context.Context) (int, error) {
	if s.Persistence == nil {
		return 0, errors.New("app: no persistence configured")
	}

	rows := s.Persistence.Rows(ctx)
	type key struct {
		createdAt string
		userID    string
	}
	inPrimary := map[key]bool{}
	var legacy []reconcile.Row
	for _, row := range rows {
		switch row.Source {
		case store.SourceNag:
			inPrimary[key{row.CreatedAt, row.UserID}] = true
		case store.SourceLegacy:
			legacy = append(legacy, row)
		}
	}

	copied := 0
	for _, row := range legacy {
		if inPrimary[key{row.CreatedAt, row.UserID}] {
			continue
		}
		row.Source = store.SourceNag
		row.ID = "" // derive a fresh id under the new source
		if err := s.Persistence.Append(row); err != nil {
			return copied, fmt.Errorf("app: migrate row %s: %w", row.CreatedAt, err)
		}
		copied++
	}
	return copied, nil
}
