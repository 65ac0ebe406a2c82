// Package nag defines the reminder value object and its wire payload
// parsing and serialization.
package nag

import (
	"strings"
)

// Mode identifies how a nag schedules its due instants.
type Mode string

const (
	// ModeOneTime nags carry a single due instant.
	ModeOneTime Mode = "ONE_TIME"
	// ModeMonthly nags resolve due instants from a recurrence pattern.
	ModeMonthly Mode = "MONTHLY"
)

// Pattern discriminates the monthly-family recurrence rules.
type Pattern string

const (
	PatternDayOfMonth Pattern = "DAY_OF_MONTH"
	PatternDayOfWeek  Pattern = "DAY_OF_WEEK"
	PatternNthWeekday Pattern = "NTH_WEEKDAY_OF_MONTH"
	PatternEndOfMonth Pattern = "END_OF_MONTH"
	PatternQuarterly  Pattern = "QUARTERLY"
	PatternAnnual     Pattern = "ANNUAL"
)

// AllPatterns returns the supported recurrence patterns.
func AllPatterns() []Pattern {
	return []Pattern{
		PatternDayOfMonth,
		PatternDayOfWeek,
		PatternNthWeekday,
		PatternEndOfMonth,
		PatternQuarterly,
		PatternAnnual,
	}
}

// Action tags a serialized payload row in the event log.
type Action string

const (
	ActionCreate             Action = "create"
	ActionUpdate             Action = "update"
	ActionDelete             Action = "delete"
	ActionPushDue            Action = "push_due"
	ActionCompleteOccurrence Action = "complete_occurrence"
	ActionManualSync         Action = "manual_sync"
)

// Bucket names with reserved semantics.
const (
	// AllBucket is the display-side selector for every non-project bucket.
	AllBucket = "All"
	// ProjectBucket groups nags under a secondary project-name dimension.
	ProjectBucket = "Project"
	// DefaultProjectName substitutes for a blank project name.
	DefaultProjectName = "General"
)

// DefaultBuckets returns the bucket labels offered before any events load.
func DefaultBuckets() []string {
	return []string{"Work", "Personal", "Weekend", "Holiday", ProjectBucket}
}

// maxSkippedOccurrences caps the completed-occurrence list to the most
// recent entries.
const maxSkippedOccurrences = 200

// Calendar-style weekday numbering, Sunday=1 through Saturday=7.
const (
	WeekdaySunday = 1
	WeekdayMonday = 2
)

// Nag is a single reminder. Instances are treated as immutable once
// constructed; updates go through the WithX methods which return copies.
type Nag struct {
	WorkName             string
	Text                 string
	Bucket               string
	ProjectName          string // empty unless Bucket is the project bucket
	LatenessDays         int
	Mode                 Mode
	RepeatMinutes        int
	ContinueMinutes      *int
	NotificationsEnabled bool
	Weight               int

	OneTimeDueMillis *int64

	MonthlyDay    *int
	MonthlyHour   *int
	MonthlyMinute *int

	CreatedAtMillis int64

	SkippedDueMillis []int64

	IconGlyph     string
	IconPNGBase64 string
	ImageURL      string

	RecurringPattern           Pattern
	RecurringDayOfWeek         *int
	RecurringNthWeek           *int
	RecurringMonthOfYear       *int
	RecurringQuarterAnchor     *int
	RecurringVisibleDaysBefore *int

	PushedOffsetMillis int64
	PushCount          int
	PushedTotalMillis  int64
}

// IsProject reports whether the nag lives in the reserved project bucket.
func (n *Nag) IsProject() bool {
	return strings.EqualFold(strings.TrimSpace(n.Bucket), ProjectBucket)
}

// EffectiveProjectName returns the project grouping name, defaulting blank
// names, or "" for nags outside the project bucket.
func (n *Nag) EffectiveProjectName() string {
	if !n.IsProject() {
		return ""
	}
	if name := NormalizeProjectName(n.ProjectName); name != "" {
		return name
	}
	return DefaultProjectName
}

// IsSkipped reports whether the given base due instant was completed.
func (n *Nag) IsSkipped(dueMillis int64) bool {
	for _, skipped := range n.SkippedDueMillis {
		if skipped == dueMillis {
			return true
		}
	}
	return false
}

// NormalizeProjectName collapses newlines and surrounding space; the empty
// result means "no project name".
func NormalizeProjectName(raw string) string {
	clean := strings.NewReplacer("\n", " ", "\r", " ").Replace(raw)
	return strings.TrimSpace(clean)
}

// RecurringIndicator returns the short display marker for the nag's
// recurrence pattern, or "" for one-time nags.
func (n *Nag) RecurringIndicator() string {
	if n.Mode != ModeMonthly {
		return ""
	}
	switch n.RecurringPattern {
	case PatternDayOfMonth, "":
		return "R:M"
	case PatternDayOfWeek:
		return "R:W"
	case PatternNthWeekday:
		return "R:N"
	case PatternEndOfMonth:
		return "R:EOM"
	case PatternQuarterly:
		return "R:Q"
	case PatternAnnual:
		return "R:Y"
	default:
		return "R"
	}
}
