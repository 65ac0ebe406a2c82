package nag

import "sort"

// Clone returns a deep copy. Slices and optional fields are duplicated so
// the copy can be updated without aliasing the original.
func (n *Nag) Clone() *Nag {
	cp := *n
	cp.ContinueMinutes = cloneInt(n.ContinueMinutes)
	cp.OneTimeDueMillis = cloneInt64(n.OneTimeDueMillis)
	cp.MonthlyDay = cloneInt(n.MonthlyDay)
	cp.MonthlyHour = cloneInt(n.MonthlyHour)
	cp.MonthlyMinute = cloneInt(n.MonthlyMinute)
	cp.RecurringDayOfWeek = cloneInt(n.RecurringDayOfWeek)
	cp.RecurringNthWeek = cloneInt(n.RecurringNthWeek)
	cp.RecurringMonthOfYear = cloneInt(n.RecurringMonthOfYear)
	cp.RecurringQuarterAnchor = cloneInt(n.RecurringQuarterAnchor)
	cp.RecurringVisibleDaysBefore = cloneInt(n.RecurringVisibleDaysBefore)
	if n.SkippedDueMillis != nil {
		cp.SkippedDueMillis = append([]int64(nil), n.SkippedDueMillis...)
	}
	return &cp
}

// WithPush returns a copy whose push offset, push count, and cumulative
// pushed duration all advance by the (non-negative) delta. The counters
// never decrease.
func (n *Nag) WithPush(deltaMillis int64) *Nag {
	if deltaMillis < 0 {
		deltaMillis = 0
	}
	cp := n.Clone()
	cp.PushedOffsetMillis += deltaMillis
	cp.PushCount++
	cp.PushedTotalMillis += deltaMillis
	return cp
}

// WithCompletedOccurrence returns a copy whose skip list records the given
// source due instant. Completing the same instant twice is a no-op; the
// list stays sorted, deduplicated, and capped to the most recent entries.
func (n *Nag) WithCompletedOccurrence(sourceDueMillis int64) *Nag {
	cp := n.Clone()
	if cp.IsSkipped(sourceDueMillis) {
		return cp
	}
	cp.SkippedDueMillis = append(cp.SkippedDueMillis, sourceDueMillis)
	sort.Slice(cp.SkippedDueMillis, func(i, j int) bool {
		return cp.SkippedDueMillis[i] < cp.SkippedDueMillis[j]
	})
	if len(cp.SkippedDueMillis) > maxSkippedOccurrences {
		cp.SkippedDueMillis = append([]int64(nil), cp.SkippedDueMillis[len(cp.SkippedDueMillis)-maxSkippedOccurrences:]...)
	}
	return cp
}

// WithIconPNG returns a copy carrying the validated inline icon bytes, or
// the receiver's copy unchanged when the data does not validate.
func (n *Nag) WithIconPNG(raw any) *Nag {
	cp := n.Clone()
	if data := NormalizeIconPNG(raw); data != "" {
		cp.IconPNGBase64 = data
	}
	return cp
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
