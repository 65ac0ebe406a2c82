package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/timeutil"
)

const calendarWidth = len("11 12 13 14 15 16 17") // an example week

// Calendar prints a month grid with due-occurrence counts, one month at
// a time starting at on.
func (pp *PrettyPrint) Calendar(r *recurrence.Resolver, on time.Time, nags ...*nag.Nag) {
	loc := pp.Loc
	if loc == nil {
		loc = time.Local
	}
	monthStart := time.Date(on.Year(), on.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Millisecond)

	days := DaysIn(monthStart)
	count := make([]int, days)
	for _, n := range nags {
		for _, w := range dueWindowsIn(r, n, monthStart.UnixMilli(), monthEnd.UnixMilli()) {
			day := timeutil.ToLocal(w.DueMillis, loc).Day()
			if day >= 1 && day <= days {
				count[day-1]++
			}
		}
	}

	pp.PrintMonthCount(monthStart, count)
}

// CalendarYear prints twelve month grids starting from January.
func (pp *PrettyPrint) CalendarYear(r *recurrence.Resolver, year int, nags ...*nag.Nag) {
	loc := pp.Loc
	if loc == nil {
		loc = time.Local
	}
	then := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	for i := 0; i < 12; i++ {
		pp.Calendar(r, then, nags...)
		then = NextMonth(then)
	}
}

// dueWindowsIn collects due windows falling inside the range: the range
// expansion for recurring nags, the single window for one-time ones.
func dueWindowsIn(r *recurrence.Resolver, n *nag.Nag, startMillis, endMillis int64) []recurrence.DueWindow {
	if n.Mode == nag.ModeMonthly {
		return r.WindowsInRange(n, startMillis, endMillis)
	}
	w, ok := r.Window(n, startMillis)
	if !ok || w.DueMillis < startMillis || w.DueMillis > endMillis {
		return nil
	}
	return []recurrence.DueWindow{w}
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (calendarWidth - len(m)) / 2
	tf.Printf("%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", calendarWidth-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		if i < d {
			fmt.Print("   ")
		}
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			l2.Printf("%2d ", i+1)
		} else {
			l1.Printf("%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			fmt.Print("\n")
		}
	}
	fmt.Print("\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 0, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, then.Location()).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 0, 0, 0, 0, then.Location()).Weekday()
}
