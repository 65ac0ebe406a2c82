package nag

import (
	"fmt"
	"strings"
)

// Validate applies the strict checks used for user-authored edits. Unlike
// payload ingestion, which clamps and defaults, every violation here is a
// named failure reported to the caller.
func (n *Nag) Validate() error {
	if strings.TrimSpace(n.WorkName) == "" {
		return fmt.Errorf("nag: work name is required")
	}
	if strings.TrimSpace(n.Text) == "" {
		return fmt.Errorf("nag: nag text is required")
	}
	if n.IsProject() && NormalizeProjectName(n.ProjectName) == "" {
		return fmt.Errorf("nag: project name is required for %s bucket nags", ProjectBucket)
	}
	if n.Weight < 0 || n.Weight > 100 {
		return fmt.Errorf("nag: weight must be 0..100, got %d", n.Weight)
	}
	if n.LatenessDays < 1 {
		return fmt.Errorf("nag: lateness days must be at least 1, got %d", n.LatenessDays)
	}

	switch n.Mode {
	case ModeOneTime:
		if n.OneTimeDueMillis == nil {
			return fmt.Errorf("nag: one-time nags need a due instant")
		}
	case ModeMonthly:
		if n.MonthlyDay == nil || *n.MonthlyDay < 1 || *n.MonthlyDay > 31 {
			return fmt.Errorf("nag: monthly day must be 1..31")
		}
		if n.MonthlyHour == nil || *n.MonthlyHour < 0 || *n.MonthlyHour > 23 {
			return fmt.Errorf("nag: monthly hour must be 0..23")
		}
		if n.MonthlyMinute == nil || *n.MonthlyMinute < 0 || *n.MonthlyMinute > 59 {
			return fmt.Errorf("nag: monthly minute must be 0..59")
		}
		if n.RecurringDayOfWeek != nil && (*n.RecurringDayOfWeek < 1 || *n.RecurringDayOfWeek > 7) {
			return fmt.Errorf("nag: day of week must be 1..7, Sunday first")
		}
		if n.RecurringNthWeek != nil && (*n.RecurringNthWeek < 1 || *n.RecurringNthWeek > 5) {
			return fmt.Errorf("nag: nth week must be 1..5")
		}
		if n.RecurringMonthOfYear != nil && (*n.RecurringMonthOfYear < 1 || *n.RecurringMonthOfYear > 12) {
			return fmt.Errorf("nag: month of year must be 1..12")
		}
		if n.RecurringQuarterAnchor != nil && (*n.RecurringQuarterAnchor < 1 || *n.RecurringQuarterAnchor > 12) {
			return fmt.Errorf("nag: quarter anchor month must be 1..12")
		}
		if n.RecurringVisibleDaysBefore != nil && *n.RecurringVisibleDaysBefore < 1 {
			return fmt.Errorf("nag: visible days before due must be at least 1")
		}
	default:
		return fmt.Errorf("nag: mode must be %s or %s, got %q", ModeOneTime, ModeMonthly, n.Mode)
	}
	return nil
}
