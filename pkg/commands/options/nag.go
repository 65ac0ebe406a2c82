package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/timeutil"
)

// NagOptions captures the flags that describe a reminder for add/edit.
type NagOptions struct {
	Text     string
	Bucket   string
	Project  string
	Weight   int
	Lateness int

	Due string // one-time local datetime

	Pattern       string
	Day           int
	Hour          int
	Minute        int
	Weekday       int
	Nth           int
	Month         int
	QuarterAnchor int
	VisibleDays   int

	Icon  string
	Image string
}

func AddNagArgs(cmd *cobra.Command, o *NagOptions) {
	cmd.Flags().StringVarP(&o.Text, "text", "t", "",
		"The reminder text.")
	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "Work",
		"The bucket the nag lives in.")
	cmd.Flags().StringVarP(&o.Project, "project", "p", "",
		"Project name, implies the Project bucket.")
	cmd.Flags().IntVarP(&o.Weight, "weight", "w", 50,
		"Urgency weight, 0 to 100.")
	cmd.Flags().IntVar(&o.Lateness, "lateness", 7,
		"Days of lateness tolerated after the due instant.")

	cmd.Flags().StringVar(&o.Due, "due", "",
		`One-time due datetime, example: --due="2026-03-01 09:00".`)

	cmd.Flags().StringVar(&o.Pattern, "repeat", "",
		"Recurrence pattern. One of 'monthly', 'weekly', 'nth-weekday', 'end-of-month', 'quarterly' or 'annual'.")
	cmd.Flags().IntVar(&o.Day, "day", 1,
		"Day of month for recurring nags.")
	cmd.Flags().IntVar(&o.Hour, "hour", 9,
		"Due hour for recurring nags.")
	cmd.Flags().IntVar(&o.Minute, "minute", 0,
		"Due minute for recurring nags.")
	cmd.Flags().IntVar(&o.Weekday, "weekday", 0,
		"Weekday for weekly and nth-weekday patterns, 1=Sunday through 7=Saturday.")
	cmd.Flags().IntVar(&o.Nth, "nth", 0,
		"Which occurrence for the nth-weekday pattern, 1 to 5, 5 means last.")
	cmd.Flags().IntVar(&o.Month, "month", 0,
		"Month of year for the annual pattern.")
	cmd.Flags().IntVar(&o.QuarterAnchor, "quarter-anchor", 0,
		"Anchor month for the quarterly pattern, defaults to the creation month.")
	cmd.Flags().IntVar(&o.VisibleDays, "visible-days", 0,
		"Hide recurring entries until this many days before due, 0 to always show.")

	cmd.Flags().StringVar(&o.Icon, "icon", "",
		"Emoji glyph shown next to the name.")
	cmd.Flags().StringVar(&o.Image, "image", "",
		"Image URL attached to the nag.")
}

var patternAliases = map[string]nag.Pattern{
	"monthly":      nag.PatternDayOfMonth,
	"day-of-month": nag.PatternDayOfMonth,
	"weekly":       nag.PatternDayOfWeek,
	"day-of-week":  nag.PatternDayOfWeek,
	"nth-weekday":  nag.PatternNthWeekday,
	"end-of-month": nag.PatternEndOfMonth,
	"eom":          nag.PatternEndOfMonth,
	"quarterly":    nag.PatternQuarterly,
	"annual":       nag.PatternAnnual,
	"yearly":       nag.PatternAnnual,
}

// Build assembles a Nag from the flags. The work name comes from the
// command arguments, the creation instant and zone from the caller.
func (o *NagOptions) Build(workName string, createdAtMillis int64, loc *time.Location) (*nag.Nag, error) {
	n := &nag.Nag{
		WorkName:        strings.TrimSpace(workName),
		Text:            strings.TrimSpace(o.Text),
		Bucket:          strings.TrimSpace(o.Bucket),
		Weight:          o.Weight,
		LatenessDays:    o.Lateness,
		CreatedAtMillis: createdAtMillis,
		IconGlyph:       nag.NormalizeIconGlyph(o.Icon),
		ImageURL:        nag.NormalizeImageURL(o.Image),
	}
	if o.Project != "" {
		n.Bucket = nag.ProjectBucket
		n.ProjectName = nag.NormalizeProjectName(o.Project)
	}

	if o.Pattern == "" {
		n.Mode = nag.ModeOneTime
		if o.Due != "" {
			due, err := timeutil.ParseLocal(o.Due, loc)
			if err != nil {
				return nil, err
			}
			n.OneTimeDueMillis = &due
		}
		return n, nil
	}

	if o.Due != "" {
		return nil, fmt.Errorf("--due only applies without --repeat")
	}

	pattern, ok := patternAliases[strings.ToLower(strings.TrimSpace(o.Pattern))]
	if !ok {
		return nil, fmt.Errorf("unknown repeat pattern %q", o.Pattern)
	}

	n.Mode = nag.ModeMonthly
	n.RecurringPattern = pattern
	day, hour, minute := o.Day, o.Hour, o.Minute
	n.MonthlyDay = &day
	n.MonthlyHour = &hour
	n.MonthlyMinute = &minute

	switch pattern {
	case nag.PatternDayOfWeek, nag.PatternNthWeekday:
		if o.Weekday < 1 || o.Weekday > 7 {
			return nil, fmt.Errorf("--weekday must be 1 through 7 for %q", o.Pattern)
		}
		weekday := o.Weekday
		n.RecurringDayOfWeek = &weekday
		if pattern == nag.PatternNthWeekday {
			if o.Nth < 1 {
				return nil, fmt.Errorf("--nth must be at least 1 for %q", o.Pattern)
			}
			nth := o.Nth
			n.RecurringNthWeek = &nth
		}
	case nag.PatternQuarterly:
		if o.QuarterAnchor != 0 {
			anchor := o.QuarterAnchor
			n.RecurringQuarterAnchor = &anchor
		}
	case nag.PatternAnnual:
		if o.Month != 0 {
			month := o.Month
			n.RecurringMonthOfYear = &month
		}
	}

	if o.VisibleDays > 0 {
		visible := o.VisibleDays
		n.RecurringVisibleDaysBefore = &visible
	}
	return n, nil
}
