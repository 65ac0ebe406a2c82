package options

import (
	"testing"
	"time"

	"tableflip.dev/nag/pkg/nag"
)

func TestBuildOneTime(t *testing.T) {
	o := &NagOptions{
		Text:     "pay the rent",
		Bucket:   "Work",
		Weight:   80,
		Lateness: 7,
		Due:      "2026-03-01 09:00",
	}

	n, err := o.Build("pay-rent", 1700000000000, time.UTC)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if n.Mode != nag.ModeOneTime {
		t.Fatalf("mode = %q, want %q", n.Mode, nag.ModeOneTime)
	}
	if n.OneTimeDueMillis == nil {
		t.Fatal("expected a one-time due instant")
	}
	want := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC).UnixMilli()
	if *n.OneTimeDueMillis != want {
		t.Fatalf("due = %d, want %d", *n.OneTimeDueMillis, want)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("built nag fails validation: %v", err)
	}
}

func TestBuildMonthlyPatterns(t *testing.T) {
	o := &NagOptions{
		Text:     "water the plants",
		Bucket:   "Personal",
		Weight:   50,
		Lateness: 7,
		Pattern:  "weekly",
		Day:      1,
		Weekday:  7,
		Hour:     9,
	}

	n, err := o.Build("water-plants", 1700000000000, time.UTC)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if n.Mode != nag.ModeMonthly {
		t.Fatalf("mode = %q, want %q", n.Mode, nag.ModeMonthly)
	}
	if n.RecurringPattern != nag.PatternDayOfWeek {
		t.Fatalf("pattern = %q, want %q", n.RecurringPattern, nag.PatternDayOfWeek)
	}
	if n.RecurringDayOfWeek == nil || *n.RecurringDayOfWeek != 7 {
		t.Fatalf("weekday = %v, want 7", n.RecurringDayOfWeek)
	}
	if n.MonthlyHour == nil || *n.MonthlyHour != 9 {
		t.Fatalf("hour = %v, want 9", n.MonthlyHour)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("built nag fails validation: %v", err)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	cases := map[string]*NagOptions{
		"unknown pattern":     {Text: "x", Bucket: "Work", Pattern: "hourly"},
		"weekly no weekday":   {Text: "x", Bucket: "Work", Pattern: "weekly"},
		"nth without nth":     {Text: "x", Bucket: "Work", Pattern: "nth-weekday", Weekday: 2},
		"due with repeat":     {Text: "x", Bucket: "Work", Pattern: "monthly", Due: "2026-03-01 09:00"},
		"unparseable due":     {Text: "x", Bucket: "Work", Due: "next tuesday"},
		"weekday out of span": {Text: "x", Bucket: "Work", Pattern: "weekly", Weekday: 8},
	}
	for name, o := range cases {
		if _, err := o.Build("w", 1700000000000, time.UTC); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestBuildProjectImpliesProjectBucket(t *testing.T) {
	o := &NagOptions{Text: "draft the brief", Bucket: "Work", Project: " apollo \n"}

	n, err := o.Build("draft-brief", 1700000000000, time.UTC)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if n.Bucket != nag.ProjectBucket {
		t.Fatalf("bucket = %q, want %q", n.Bucket, nag.ProjectBucket)
	}
	if n.ProjectName != "apollo" {
		t.Fatalf("project = %q, want %q", n.ProjectName, "apollo")
	}
}

func TestViewOptionsSortMode(t *testing.T) {
	o := &ViewOptions{Sort: "due"}
	if _, err := o.SortMode(); err != nil {
		t.Fatalf("SortMode() = %v", err)
	}
	o.Sort = "alphabetical"
	if _, err := o.SortMode(); err == nil {
		t.Fatal("expected an error for unknown sort")
	}
}
