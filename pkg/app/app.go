package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/reconcile"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/store"
	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/view"
)

// Service provides high-level operations over the nag event log. It wraps
// persistence, reconciliation, and recurrence resolution so UIs and CLIs
// can share logic.
type Service struct {
	Persistence store.Persistence
	Resolver    *recurrence.Resolver
	UserID      string
}

var ErrNotFound = errors.New("app: nag not found")

// State is one reconciled snapshot of the event log.
type State struct {
	Nags map[string]*nag.Nag

	// Diagnostic counters from the replay, surfaced in status output.
	RowCount     int
	PayloadRows  int
	ValidNagRows int

	PrimarySource string
}

func (s *Service) resolver() *recurrence.Resolver {
	if s.Resolver == nil {
		s.Resolver = recurrence.NewResolver(nil)
	}
	return s.Resolver
}

// Refresh replays the full event log into the current nag set. Every call
// reloads and replays everything; nothing is applied incrementally.
func (s *Service) Refresh(ctx context.Context) (State, error) {
	if s.Persistence == nil {
		return State{}, errors.New("app: no persistence configured")
	}
	rows := s.Persistence.Rows(ctx)
	primary := reconcile.Primary(rows)
	deduped := reconcile.Dedup(rows, primary)
	result := reconcile.Replay(deduped)
	return State{
		Nags:          result.Nags,
		RowCount:      len(deduped),
		PayloadRows:   result.PayloadRows,
		ValidNagRows:  result.ValidNagRows,
		PrimarySource: primary,
	}, nil
}

// Get returns the current nag for a work name.
func (s *Service) Get(ctx context.Context, workName string) (*nag.Nag, error) {
	state, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	n, ok := state.Nags[workName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, workName)
	}
	return n, nil
}

// Buckets returns the bucket labels to offer, defaults merged with every
// bucket present in the log.
func (s *Service) Buckets(ctx context.Context) ([]string, error) {
	state, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return view.Buckets(state.Nags), nil
}

// Visible computes the ordered display entries for the given scope and
// sort mode at the current instant.
func (s *Service) Visible(ctx context.Context, p view.Params, sortMode view.SortMode) ([]view.Entry, State, error) {
	state, err := s.Refresh(ctx)
	if err != nil {
		return nil, State{}, err
	}
	now := timeutil.NowMillis()
	entries := view.Visible(state.Nags, s.resolver(), now, p)
	return view.SortEntries(entries, sortMode, s.resolver(), now), state, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

// append validates nothing; callers decide what a well-formed nag is. It
// serializes the nag under the given action and writes one event row.
func (s *Service) append(action nag.Action, n *nag.Nag) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.Append(reconcile.Row{
		CreatedAt: timeutil.Timestamp(),
		UserID:    s.UserID,
		Payload:   n.Payload(action, timeutil.NowMillis()),
	})
}

// Create validates and records a new nag. An existing nag under the same
// work name is an error; use Update to replace it.
func (s *Service) Create(ctx context.Context, n *nag.Nag) error {
	if err := n.Validate(); err != nil {
		return err
	}
	state, err := s.Refresh(ctx)
	if err != nil {
		return err
	}
	if _, exists := state.Nags[n.WorkName]; exists {
		return fmt.Errorf("app: nag %q already exists", n.WorkName)
	}
	return s.append(nag.ActionCreate, n)
}

// Update validates and records a replacement for an existing nag.
func (s *Service) Update(ctx context.Context, n *nag.Nag) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if _, err := s.Get(ctx, n.WorkName); err != nil {
		return err
	}
	return s.append(nag.ActionUpdate, n)
}

// Delete records a delete event for the work name.
func (s *Service) Delete(ctx context.Context, workName string) error {
	n, err := s.Get(ctx, workName)
	if err != nil {
		return err
	}
	return s.append(nag.ActionDelete, n)
}

// Push moves the nag's due instant forward by the delta and records the
// pushed state.
func (s *Service) Push(ctx context.Context, workName string, deltaMillis int64) (*nag.Nag, error) {
	if deltaMillis <= 0 {
		return nil, fmt.Errorf("app: push duration must be positive")
	}
	n, err := s.Get(ctx, workName)
	if err != nil {
		return nil, err
	}
	pushed := n.WithPush(deltaMillis)
	if err := s.append(nag.ActionPushDue, pushed); err != nil {
		return nil, err
	}
	return pushed, nil
}

// CompleteOccurrence marks the recurring occurrence identified by its
// pre-push source due instant as done. A zero instant completes the
// current window's occurrence.
func (s *Service) CompleteOccurrence(ctx context.Context, workName string, sourceDueMillis int64) (*nag.Nag, error) {
	n, err := s.Get(ctx, workName)
	if err != nil {
		return nil, err
	}
	if n.Mode != nag.ModeMonthly {
		return nil, fmt.Errorf("app: %s is not recurring", workName)
	}
	if sourceDueMillis == 0 {
		w, ok := s.resolver().CurrentWindow(n, timeutil.NowMillis())
		if !ok {
			return nil, fmt.Errorf("app: %s has no resolvable occurrence", workName)
		}
		sourceDueMillis = w.SourceDueMillis
	}
	completed := n.WithCompletedOccurrence(sourceDueMillis)
	if err := s.append(nag.ActionCompleteOccurrence, completed); err != nil {
		return nil, err
	}
	return completed, nil
}

// SyncAll re-records every current nag under a manual-sync action and
// returns how many rows were written. The replay semantics make this a
// state-preserving checkpoint: the newest row per key wins either way.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	state, err := s.Refresh(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range state.Nags {
		if err := s.append(nag.ActionManualSync, n); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
