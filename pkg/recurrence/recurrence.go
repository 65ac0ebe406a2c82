// Package recurrence resolves due windows for one-time and recurring nags
// by pattern matching over local calendar dates.
package recurrence

import (
	"time"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/timeutil"
)

// Scan bounds. Six years of day steps covers every pattern the resolver
// supports; malformed configurations terminate instead of looping.
const (
	maxScanDays     = 366*6 + 1
	maxRangeWindows = 600

	// rangeCursorStepMillis advances the range cursor past a matched
	// occurrence before the next forward scan.
	rangeCursorStepMillis = 60 * timeutil.MillisPerSecond
)

// DueWindow is one occurrence's active lifecycle. SourceDueMillis is the
// due instant before the push offset is applied and is the stable key for
// completing an occurrence; DueMillis = SourceDueMillis + push offset.
type DueWindow struct {
	StartMillis     int64
	DueMillis       int64
	SourceDueMillis int64
}

// Resolver computes due windows in a fixed location so results are
// deterministic regardless of the process timezone.
type Resolver struct {
	loc *time.Location
}

// NewResolver returns a resolver anchored to loc, or the system local
// zone when loc is nil.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{loc: loc}
}

// Location returns the calendar zone the resolver operates in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// applyPush shifts a base due instant by the nag's push offset. Negative
// offsets are treated as zero.
func applyPush(n *nag.Nag, baseDueMillis int64) int64 {
	if n.PushedOffsetMillis > 0 {
		return baseDueMillis + n.PushedOffsetMillis
	}
	return baseDueMillis
}

// calendarWeekday converts a date to Calendar-style numbering, Sunday=1
// through Saturday=7.
func calendarWeekday(t time.Time) int {
	return int(t.Weekday()) + 1
}

// monthMaxDay returns the number of days in the given month.
func monthMaxDay(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nthWeekdayDay returns the day-of-month of the nth occurrence of the
// given weekday. A month short of n occurrences, or n >= 5, selects the
// last occurrence.
func nthWeekdayDay(year int, month time.Month, weekday, nth int, loc *time.Location) int {
	maxDay := monthMaxDay(year, month, loc)
	var matches []int
	for day := 1; day <= maxDay; day++ {
		if calendarWeekday(time.Date(year, month, day, 0, 0, 0, 0, loc)) == weekday {
			matches = append(matches, day)
		}
	}
	if len(matches) == 0 {
		return 1
	}
	if nth >= 5 {
		return matches[len(matches)-1]
	}
	idx := nth - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(matches) {
		return matches[len(matches)-1]
	}
	return matches[idx]
}

// matchesDate reports whether the nag's recurrence pattern selects the
// given local calendar date.
func (r *Resolver) matchesDate(n *nag.Nag, date time.Time) bool {
	if n.Mode != nag.ModeMonthly {
		return false
	}

	year, month, day := date.Date()
	maxDay := monthMaxDay(year, month, r.loc)

	pattern := n.RecurringPattern
	if pattern == "" {
		pattern = nag.PatternDayOfMonth
	}

	switch pattern {
	case nag.PatternDayOfMonth:
		target := day
		if n.MonthlyDay != nil {
			target = *n.MonthlyDay
		}
		if target > maxDay {
			target = maxDay
		}
		return day == target

	case nag.PatternDayOfWeek:
		target := nag.WeekdayMonday
		if n.RecurringDayOfWeek != nil {
			target = *n.RecurringDayOfWeek
		}
		return calendarWeekday(date) == target

	case nag.PatternNthWeekday:
		weekday := nag.WeekdayMonday
		if n.RecurringDayOfWeek != nil {
			weekday = *n.RecurringDayOfWeek
		}
		nth := 1
		if n.RecurringNthWeek != nil {
			nth = *n.RecurringNthWeek
		}
		return day == nthWeekdayDay(year, month, weekday, nth, r.loc)

	case nag.PatternEndOfMonth:
		return day == maxDay

	case nag.PatternQuarterly:
		anchor := timeutil.ToLocal(n.CreatedAtMillis, r.loc).Month()
		if n.RecurringQuarterAnchor != nil {
			anchor = time.Month(clampInt(*n.RecurringQuarterAnchor, 1, 12))
		}
		delta := ((int(month)-int(anchor))%12 + 12) % 12
		if delta%3 != 0 {
			return false
		}
		target := day
		if n.MonthlyDay != nil {
			target = *n.MonthlyDay
		}
		if target > maxDay {
			target = maxDay
		}
		return day == target

	case nag.PatternAnnual:
		targetMonth := month
		if n.RecurringMonthOfYear != nil {
			targetMonth = time.Month(clampInt(*n.RecurringMonthOfYear, 1, 12))
		}
		target := day
		if n.MonthlyDay != nil {
			target = *n.MonthlyDay
		}
		if target > maxDay {
			target = maxDay
		}
		return month == targetMonth && day == target

	default:
		return false
	}
}

// NextBaseDue resolves the first base due instant at or after the
// reference. Instants in the nag's completed-occurrence set are skipped.
// The second return is false when no occurrence exists within the scan
// bound or when the nag is not schedulable.
func (r *Resolver) NextBaseDue(n *nag.Nag, referenceMillis int64) (int64, bool) {
	if n.Mode != nag.ModeMonthly {
		return 0, false
	}
	if n.MonthlyHour == nil || n.MonthlyMinute == nil {
		return 0, false
	}

	ref := timeutil.ToLocal(referenceMillis, r.loc)
	probe := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, r.loc)
	for offset := 0; offset < maxScanDays; offset++ {
		date := probe.AddDate(0, 0, offset)
		if !r.matchesDate(n, date) {
			continue
		}
		due := time.Date(date.Year(), date.Month(), date.Day(), *n.MonthlyHour, *n.MonthlyMinute, 0, 0, r.loc)
		dueMillis := due.UnixMilli()
		if dueMillis < referenceMillis {
			continue
		}
		if n.IsSkipped(dueMillis) {
			continue
		}
		return dueMillis, true
	}
	return 0, false
}

// PreviousBaseDue resolves the last base due instant at or before the
// reference. The completed-occurrence set does not apply on the backward
// scan; a completed occurrence still anchors the start of the next window.
func (r *Resolver) PreviousBaseDue(n *nag.Nag, referenceMillis int64) (int64, bool) {
	if n.Mode != nag.ModeMonthly {
		return 0, false
	}
	if n.MonthlyHour == nil || n.MonthlyMinute == nil {
		return 0, false
	}

	ref := timeutil.ToLocal(referenceMillis, r.loc)
	probe := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, r.loc)
	for offset := 0; offset < maxScanDays; offset++ {
		date := probe.AddDate(0, 0, -offset)
		if !r.matchesDate(n, date) {
			continue
		}
		due := time.Date(date.Year(), date.Month(), date.Day(), *n.MonthlyHour, *n.MonthlyMinute, 0, 0, r.loc)
		dueMillis := due.UnixMilli()
		if dueMillis > referenceMillis {
			continue
		}
		return dueMillis, true
	}
	return 0, false
}

// CurrentWindow resolves the active display window for a recurring nag:
// the next base due (pushed) bounded below by the previous occurrence or
// the creation instant, whichever is later.
func (r *Resolver) CurrentWindow(n *nag.Nag, referenceMillis int64) (DueWindow, bool) {
	baseDue, ok := r.NextBaseDue(n, referenceMillis)
	if !ok {
		return DueWindow{}, false
	}
	start := n.CreatedAtMillis
	if prev, ok := r.PreviousBaseDue(n, baseDue-1); ok && prev > start {
		start = prev
	}
	return DueWindow{
		StartMillis:     start,
		DueMillis:       applyPush(n, baseDue),
		SourceDueMillis: baseDue,
	}, true
}

// WindowsInRange resolves every due window whose (pushed) due instant
// falls in [startMillis, endMillis], bounded to 600 windows.
func (r *Resolver) WindowsInRange(n *nag.Nag, startMillis, endMillis int64) []DueWindow {
	if endMillis < startMillis {
		return nil
	}
	var windows []DueWindow
	cursor := startMillis
	for guard := 0; guard < maxRangeWindows; guard++ {
		baseDue, ok := r.NextBaseDue(n, cursor)
		if !ok {
			break
		}
		dueMillis := applyPush(n, baseDue)
		if dueMillis > endMillis {
			break
		}
		start := n.CreatedAtMillis
		if prev, ok := r.PreviousBaseDue(n, baseDue-1); ok && prev > start {
			start = prev
		}
		windows = append(windows, DueWindow{
			StartMillis:     start,
			DueMillis:       dueMillis,
			SourceDueMillis: baseDue,
		})
		cursor = baseDue + rangeCursorStepMillis
	}
	return windows
}

// Window resolves the due window for any nag at the reference instant.
// One-time nags without a due instant, and recurring nags with no
// resolvable occurrence, have no window.
func (r *Resolver) Window(n *nag.Nag, referenceMillis int64) (DueWindow, bool) {
	if n.Mode == nag.ModeOneTime {
		if n.OneTimeDueMillis == nil {
			return DueWindow{}, false
		}
		baseDue := *n.OneTimeDueMillis
		start := n.CreatedAtMillis
		if baseDue < start {
			start = baseDue
		}
		return DueWindow{
			StartMillis:     start,
			DueMillis:       applyPush(n, baseDue),
			SourceDueMillis: baseDue,
		}, true
	}
	return r.CurrentWindow(n, referenceMillis)
}

// NextDue resolves the next (pushed) due instant at or after the
// reference, across both modes.
func (r *Resolver) NextDue(n *nag.Nag, referenceMillis int64) (int64, bool) {
	if n.Mode == nag.ModeOneTime {
		if n.OneTimeDueMillis == nil {
			return 0, false
		}
		return applyPush(n, *n.OneTimeDueMillis), true
	}
	baseDue, ok := r.NextBaseDue(n, referenceMillis)
	if !ok {
		return 0, false
	}
	return applyPush(n, baseDue), true
}
