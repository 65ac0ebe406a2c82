package view

import (
	"testing"
	"time"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/timeutil"
)

var testLoc = time.UTC

func millis(year int, month time.Month, day, hour, minute int) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, testLoc).UnixMilli()
}

func oneTime(work, bucket string, due, created int64, weight int) *nag.Nag {
	return &nag.Nag{
		WorkName:         work,
		Text:             work,
		Bucket:           bucket,
		Weight:           weight,
		LatenessDays:     7,
		Mode:             nag.ModeOneTime,
		OneTimeDueMillis: &due,
		CreatedAtMillis:  created,
	}
}

func monthly(work string, day int, created int64) *nag.Nag {
	hour, minute := 9, 0
	return &nag.Nag{
		WorkName:         work,
		Text:             work,
		Bucket:           "Work",
		Weight:           50,
		LatenessDays:     7,
		Mode:             nag.ModeMonthly,
		RecurringPattern: nag.PatternDayOfMonth,
		MonthlyDay:       &day,
		MonthlyHour:      &hour,
		MonthlyMinute:    &minute,
		CreatedAtMillis:  created,
	}
}

func asMap(nags ...*nag.Nag) map[string]*nag.Nag {
	m := map[string]*nag.Nag{}
	for _, n := range nags {
		m[n.WorkName] = n
	}
	return m
}

func TestVisibleAllExcludesProjectBucket(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	now := millis(2024, time.March, 1, 0, 0)
	created := millis(2024, time.February, 1, 0, 0)
	due := millis(2024, time.March, 10, 0, 0)

	work := oneTime("work-item", "Work", due, created, 50)
	proj := oneTime("proj-item", "Project", due, created, 50)
	proj.ProjectName = "Apollo"

	entries := Visible(asMap(work, proj), r, now, Params{Bucket: nag.AllBucket})
	if len(entries) != 1 {
		t.Fatalf("entry count: %d", len(entries))
	}
	if entries[0].Nag.WorkName != "work-item" {
		t.Fatalf("project item leaked into All: %+v", entries[0])
	}
	if entries[0].Key != "work-item_single" {
		t.Fatalf("one-time key: %q", entries[0].Key)
	}
}

func TestVisibleProjectOverview(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	now := millis(2024, time.March, 1, 0, 0)
	created := millis(2024, time.February, 1, 0, 0)

	overdue := oneTime("late", "Project", millis(2024, time.February, 20, 0, 0), created, 10)
	overdue.ProjectName = "Apollo"
	soon := oneTime("soon", "Project", millis(2024, time.March, 5, 0, 0), created, 90)
	soon.ProjectName = "Apollo"
	other := oneTime("other", "Project", millis(2024, time.March, 8, 0, 0), created, 50)
	other.ProjectName = "Gemini"

	entries := Visible(asMap(overdue, soon, other), r, now, Params{Bucket: nag.ProjectBucket})
	if len(entries) != 2 {
		t.Fatalf("group count: %d", len(entries))
	}
	byKey := map[string]Entry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}
	apollo, ok := byKey["project_overview_apollo"]
	if !ok {
		t.Fatalf("missing apollo overview: %+v", entries)
	}
	if apollo.TaskCount != 2 {
		t.Fatalf("apollo task count: %d", apollo.TaskCount)
	}
	// Overdue beats higher weight in the urgency key.
	if apollo.Nag.WorkName != "late" {
		t.Fatalf("representative: %q", apollo.Nag.WorkName)
	}
	if apollo.Window != nil {
		t.Fatal("overview entries carry no due window")
	}
}

func TestVisibleProjectWithActiveProject(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	now := millis(2024, time.March, 1, 0, 0)
	created := millis(2024, time.February, 1, 0, 0)

	a := oneTime("a", "Project", millis(2024, time.March, 5, 0, 0), created, 50)
	a.ProjectName = "Apollo"
	b := oneTime("b", "Project", millis(2024, time.March, 6, 0, 0), created, 50)
	b.ProjectName = "Gemini"

	entries := Visible(asMap(a, b), r, now, Params{Bucket: nag.ProjectBucket, ActiveProject: "apollo"})
	if len(entries) != 1 || entries[0].Nag.WorkName != "a" {
		t.Fatalf("active-project scope: %+v", entries)
	}
	if entries[0].Window == nil {
		t.Fatal("scoped project entries resolve windows")
	}
}

func TestVisibleNextOnlyHorizonAndThreshold(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	created := millis(2024, time.January, 1, 0, 0)
	now := millis(2024, time.March, 1, 0, 0)

	inHorizon := monthly("near", 15, created)
	outHorizon := monthly("far", 15, created)
	outHorizon.SkippedDueMillis = []int64{millis(2024, time.March, 15, 9, 0)}

	entries := Visible(asMap(inHorizon, outHorizon), r, now, Params{
		Bucket:      "Work",
		HorizonDays: Horizon30Days,
		Recurring:   NextOnly,
	})
	// "far" skipped March so its next due lands in April, outside 30 days.
	if len(entries) != 1 || entries[0].Nag.WorkName != "near" {
		t.Fatalf("horizon filter: %+v", entries)
	}

	// A visible-days threshold suppresses a due instant too far out.
	thresh := 3
	inHorizon.RecurringVisibleDaysBefore = &thresh
	entries = Visible(asMap(inHorizon), r, now, Params{
		Bucket:      "Work",
		HorizonDays: Horizon30Days,
		Recurring:   NextOnly,
	})
	if len(entries) != 0 {
		t.Fatalf("visible-days suppression: %+v", entries)
	}

	// Close to due the same nag reappears.
	entries = Visible(asMap(inHorizon), r, millis(2024, time.March, 13, 0, 0), Params{
		Bucket:      "Work",
		HorizonDays: Horizon30Days,
		Recurring:   NextOnly,
	})
	if len(entries) != 1 {
		t.Fatalf("near-due visibility: %+v", entries)
	}
}

func TestVisibleAllInWindowExpansion(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	created := millis(2024, time.January, 1, 0, 0)
	now := millis(2024, time.March, 1, 0, 0)

	n := monthly("rent", 15, created)
	entries := Visible(asMap(n), r, now, Params{
		Bucket:      "Work",
		HorizonDays: Horizon1Year,
		Recurring:   AllInWindow,
	})
	// Mar 15 2024 .. Feb 15 2025 inclusive.
	if len(entries) != 12 {
		t.Fatalf("expansion count: %d", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.Key] {
			t.Fatalf("duplicate key %q", e.Key)
		}
		seen[e.Key] = true
		if e.Window == nil {
			t.Fatalf("expanded entry missing window: %+v", e)
		}
	}
}

func TestBuckets(t *testing.T) {
	created := millis(2024, time.January, 1, 0, 0)
	due := millis(2024, time.March, 1, 0, 0)
	nags := asMap(
		oneTime("a", "Work", due, created, 50),
		oneTime("b", "Chores", due, created, 50),
	)
	buckets := Buckets(nags)
	if buckets[0] != nag.AllBucket {
		t.Fatalf("first bucket: %q", buckets[0])
	}
	found := map[string]int{}
	for _, b := range buckets {
		found[b]++
		if found[b] > 1 {
			t.Fatalf("duplicate bucket %q", b)
		}
	}
	if found["Chores"] == 0 {
		t.Fatal("custom bucket missing")
	}
	if found["Weekend"] == 0 || found[nag.ProjectBucket] == 0 {
		t.Fatalf("default buckets missing: %v", buckets)
	}
}

func TestSortEntries(t *testing.T) {
	r := recurrence.NewResolver(testLoc)
	now := millis(2024, time.March, 10, 0, 0)

	mk := func(work string, due, created int64, weight int) Entry {
		n := oneTime(work, "Work", due, created, weight)
		w, _ := r.Window(n, now)
		return Entry{Nag: n, Window: &w, Key: work}
	}
	overdue := mk("overdue", millis(2024, time.March, 5, 0, 0), millis(2024, time.February, 3, 0, 0), 10)
	near := mk("near", millis(2024, time.March, 15, 0, 0), millis(2024, time.February, 2, 0, 0), 90)
	far := mk("far", millis(2024, time.June, 1, 0, 0), millis(2024, time.February, 1, 0, 0), 100)
	undated := Entry{
		Nag: &nag.Nag{WorkName: "undated", Mode: nag.ModeOneTime, Weight: 99,
			CreatedAtMillis: millis(2024, time.January, 1, 0, 0)},
		Key: "undated",
	}
	entries := []Entry{far, undated, near, overdue}

	order := func(got []Entry) string {
		s := ""
		for _, e := range got {
			s += e.Key + ","
		}
		return s
	}

	if got := order(SortEntries(entries, SortSmart, r, now)); got != "overdue,near,far,undated," {
		t.Fatalf("smart order: %s", got)
	}
	if got := order(SortEntries(entries, SortDue, r, now)); got != "overdue,near,far,undated," {
		t.Fatalf("due order: %s", got)
	}
	if got := order(SortEntries(entries, SortWeight, r, now)); got != "far,undated,near,overdue," {
		t.Fatalf("weight order: %s", got)
	}
	if got := order(SortEntries(entries, SortEntered, r, now)); got != "undated,far,near,overdue," {
		t.Fatalf("entered order: %s", got)
	}
}

func TestSortSmartNearBoundary(t *testing.T) {
	now := millis(2024, time.March, 1, 0, 0)

	exactly14 := now + 14*timeutil.MillisPerDay
	just15 := now + 14*timeutil.MillisPerDay + 1

	if rank := smartRank(exactly14, now); rank != 1 {
		t.Fatalf("14-day boundary rank: %d", rank)
	}
	if rank := smartRank(just15, now); rank != 2 {
		t.Fatalf("past-boundary rank: %d", rank)
	}
	if rank := smartRank(now, now); rank != 1 {
		t.Fatalf("due-now rank: %d", rank)
	}
	if rank := smartRank(now-1, now); rank != 0 {
		t.Fatalf("overdue rank: %d", rank)
	}
}
