// Package view filters the current nag set into display entries and
// orders them.
package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/theme"
	"tableflip.dev/nag/pkg/timeutil"
)

// RecurringMode selects how recurring nags expand into entries.
type RecurringMode string

const (
	// NextOnly shows at most the current display window per nag.
	NextOnly RecurringMode = "NEXT_ONLY"
	// AllInWindow shows every occurrence inside the horizon.
	AllInWindow RecurringMode = "ALL_IN_WINDOW"
)

// SortMode selects the entry ordering.
type SortMode string

const (
	SortEntered SortMode = "entered"
	SortWeight  SortMode = "weight"
	SortDue     SortMode = "due"
	SortSmart   SortMode = "smart"
)

// Monthly view horizons in days.
const (
	Horizon30Days = 30
	Horizon1Year  = 365
)

// noDue sorts entries without a resolvable due instant after everything
// else.
const noDue = math.MaxInt64

// Entry pairs a nag with an optional resolved due window and a stable
// display key. Entries are transient and recomputed on every refresh.
type Entry struct {
	Nag    *nag.Nag
	Window *recurrence.DueWindow
	Key    string

	// TaskCount is set only on project-overview entries.
	TaskCount int
}

// Params scope a visible-entry computation.
type Params struct {
	Bucket        string
	ActiveProject string
	HorizonDays   int
	Recurring     RecurringMode
}

// Buckets merges the default bucket labels with every bucket present in
// the current nag set, "All" first, preserving first occurrence.
func Buckets(nags map[string]*nag.Nag) []string {
	var present []string
	seen := map[string]bool{}
	for _, n := range nags {
		if !seen[n.Bucket] {
			seen[n.Bucket] = true
			present = append(present, n.Bucket)
		}
	}
	sort.Slice(present, func(i, j int) bool {
		return strings.ToLower(present[i]) < strings.ToLower(present[j])
	})

	merged := append([]string{nag.AllBucket}, nag.DefaultBuckets()...)
	merged = append(merged, present...)
	out := make([]string, 0, len(merged))
	chosen := map[string]bool{}
	for _, bucket := range merged {
		if !chosen[bucket] {
			chosen[bucket] = true
			out = append(out, bucket)
		}
	}
	return out
}

// Visible computes the ordered-input display entries for the given scope.
// "All" excludes project-bucket nags; the project bucket without an
// active project yields one overview entry per project.
func Visible(nags map[string]*nag.Nag, r *recurrence.Resolver, nowMillis int64, p Params) []Entry {
	selected := strings.TrimSpace(p.Bucket)
	if selected == "" {
		selected = nag.AllBucket
	}

	var scoped []*nag.Nag
	overview := false
	switch {
	case selected == nag.AllBucket:
		for _, n := range nags {
			if !n.IsProject() {
				scoped = append(scoped, n)
			}
		}
	case strings.EqualFold(selected, nag.ProjectBucket):
		active := nag.NormalizeProjectName(p.ActiveProject)
		for _, n := range nags {
			if !n.IsProject() {
				continue
			}
			if active != "" && !strings.EqualFold(n.EffectiveProjectName(), active) {
				continue
			}
			scoped = append(scoped, n)
		}
		overview = active == ""
	default:
		for _, n := range nags {
			if n.Bucket == selected {
				scoped = append(scoped, n)
			}
		}
	}

	// Map iteration order is random; fix it before any tie-break-sensitive
	// selection below.
	sort.Slice(scoped, func(i, j int) bool {
		return scoped[i].WorkName < scoped[j].WorkName
	})

	if overview {
		return projectOverview(scoped, r, nowMillis)
	}
	return expand(scoped, r, nowMillis, p)
}

// expand resolves per-nag due windows into entries.
func expand(nags []*nag.Nag, r *recurrence.Resolver, nowMillis int64, p Params) []Entry {
	horizonDays := Horizon30Days
	if p.HorizonDays >= Horizon1Year {
		horizonDays = Horizon1Year
	}
	horizonMillis := int64(horizonDays) * timeutil.MillisPerDay

	var entries []Entry
	for _, n := range nags {
		if n.Mode == nag.ModeOneTime {
			entry := Entry{Nag: n, Key: n.WorkName + "_single"}
			if w, ok := r.Window(n, nowMillis); ok {
				entry.Window = &w
			}
			entries = append(entries, entry)
			continue
		}

		if p.Recurring == AllInWindow {
			for _, w := range r.WindowsInRange(n, nowMillis, nowMillis+horizonMillis) {
				if !withinVisibleDays(n, w.DueMillis, nowMillis) {
					continue
				}
				w := w
				entries = append(entries, Entry{
					Nag:    n,
					Window: &w,
					Key:    fmt.Sprintf("%s_%d", n.WorkName, w.DueMillis),
				})
			}
			continue
		}

		w, ok := r.CurrentWindow(n, nowMillis)
		if !ok {
			continue
		}
		next, ok := r.NextDue(n, nowMillis)
		if !ok {
			continue
		}
		if next-nowMillis > horizonMillis {
			continue
		}
		if !withinVisibleDays(n, next, nowMillis) {
			continue
		}
		entries = append(entries, Entry{
			Nag:    n,
			Window: &w,
			Key:    fmt.Sprintf("%s_%d", n.WorkName, w.DueMillis),
		})
	}
	return entries
}

// withinVisibleDays applies the per-nag pre-due visibility threshold.
// Unset thresholds always pass; one-time nags are never suppressed.
func withinVisibleDays(n *nag.Nag, dueMillis, nowMillis int64) bool {
	if n.Mode != nag.ModeMonthly {
		return true
	}
	if n.RecurringVisibleDaysBefore == nil {
		return true
	}
	days := *n.RecurringVisibleDaysBefore
	if days < 1 {
		days = 1
	}
	return dueMillis <= nowMillis+int64(days)*timeutil.MillisPerDay
}

// projectOverview groups project nags by effective project name and emits
// one entry per group, keyed by project, carrying a task count and no due
// window. The representative nag is the group's most urgent one.
func projectOverview(nags []*nag.Nag, r *recurrence.Resolver, nowMillis int64) []Entry {
	type group struct {
		name string
		nags []*nag.Nag
	}
	byName := map[string]*group{}
	var order []string
	for _, n := range nags {
		name := n.EffectiveProjectName()
		if name == "" {
			name = nag.DefaultProjectName
		}
		g, ok := byName[name]
		if !ok {
			g = &group{name: name}
			byName[name] = g
			order = append(order, name)
		}
		g.nags = append(g.nags, n)
	}

	var entries []Entry
	for _, name := range order {
		g := byName[name]
		var rep *nag.Nag
		var repDue int64
		for _, n := range g.nags {
			due := int64(noDue)
			if w, ok := r.Window(n, nowMillis); ok {
				due = w.DueMillis
			} else if next, ok := r.NextDue(n, nowMillis); ok {
				due = next
			}
			if rep == nil || lessUrgent(n, due, rep, repDue, nowMillis) {
				rep, repDue = n, due
			}
		}
		entries = append(entries, Entry{
			Nag:       rep,
			Key:       "project_overview_" + strings.ToLower(g.name),
			TaskCount: len(g.nags),
		})
	}
	return entries
}

// lessUrgent reports whether candidate c sorts before the current
// representative under the urgency key (overdue first, soonest due,
// highest weight, earliest created).
func lessUrgent(c *nag.Nag, cDue int64, rep *nag.Nag, repDue int64, nowMillis int64) bool {
	cOver, repOver := overdueRank(cDue, nowMillis), overdueRank(repDue, nowMillis)
	if cOver != repOver {
		return cOver < repOver
	}
	if cDue != repDue {
		return cDue < repDue
	}
	if c.Weight != rep.Weight {
		return c.Weight > rep.Weight
	}
	return c.CreatedAtMillis < rep.CreatedAtMillis
}

func overdueRank(dueMillis, nowMillis int64) int {
	if dueMillis <= nowMillis {
		return 0
	}
	return 1
}

// entryDue returns the sort instant for an entry: its window's due, else
// the nag's next due, else maximal.
func entryDue(e Entry, r *recurrence.Resolver, nowMillis int64) int64 {
	if e.Window != nil {
		return e.Window.DueMillis
	}
	if due, ok := r.NextDue(e.Nag, nowMillis); ok {
		return due
	}
	return noDue
}

// smartRank buckets a due instant for the smart ordering: overdue, near
// (within the pre-due color window), far future, no due.
func smartRank(dueMillis, nowMillis int64) int {
	if dueMillis == noDue {
		return 3
	}
	if nowMillis > dueMillis {
		return 0
	}
	if dueMillis-nowMillis <= theme.PreDueWindowDays*timeutil.MillisPerDay {
		return 1
	}
	return 2
}

// SortEntries orders entries under the given mode. All orderings are
// stable and fall back to creation time.
func SortEntries(entries []Entry, mode SortMode, r *recurrence.Resolver, nowMillis int64) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	due := func(e Entry) int64 { return entryDue(e, r, nowMillis) }

	switch mode {
	case SortWeight:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.Nag.Weight != b.Nag.Weight {
				return a.Nag.Weight > b.Nag.Weight
			}
			if da, db := due(a), due(b); da != db {
				return da < db
			}
			return a.Nag.CreatedAtMillis < b.Nag.CreatedAtMillis
		})
	case SortDue:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if da, db := due(a), due(b); da != db {
				return da < db
			}
			if a.Nag.Weight != b.Nag.Weight {
				return a.Nag.Weight > b.Nag.Weight
			}
			return a.Nag.CreatedAtMillis < b.Nag.CreatedAtMillis
		})
	case SortSmart:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			da, db := due(a), due(b)
			if ra, rb := smartRank(da, nowMillis), smartRank(db, nowMillis); ra != rb {
				return ra < rb
			}
			if a.Nag.Weight != b.Nag.Weight {
				return a.Nag.Weight > b.Nag.Weight
			}
			if da != db {
				return da < db
			}
			return a.Nag.CreatedAtMillis < b.Nag.CreatedAtMillis
		})
	default: // SortEntered
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.Nag.CreatedAtMillis != b.Nag.CreatedAtMillis {
				return a.Nag.CreatedAtMillis < b.Nag.CreatedAtMillis
			}
			return due(a) < due(b)
		})
	}
	return out
}
