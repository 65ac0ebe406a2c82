// Package visual maps an entry's temporal state to render-ready colors,
// progress, and labels.
package visual

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/theme"
	"tableflip.dev/nag/pkg/timeutil"
)

// Visual is the render-ready state for one entry line.
type Visual struct {
	Base     colorful.Color
	Progress colorful.Color
	// Fraction is the horizontal fill amount in [0,1].
	Fraction float64
	// TextColor flips to white only for maximally weighted overdue items.
	TextColor colorful.Color

	TimeLabel    string
	PercentLabel string
}

// Mapper computes visuals against a fixed theme and resolver so output is
// deterministic for a given reference instant.
type Mapper struct {
	Theme    theme.Theme
	Resolver *recurrence.Resolver
}

// NewMapper returns a mapper over the default theme.
func NewMapper(r *recurrence.Resolver) *Mapper {
	return &Mapper{Theme: theme.Default(), Resolver: r}
}

// lerp interpolates between two colors in RGB, clamping the amount.
func lerp(from, to colorful.Color, amount float64) colorful.Color {
	t := clamp01(amount)
	return colorful.Color{
		R: from.R + (to.R-from.R)*t,
		G: from.G + (to.G-from.G)*t,
		B: from.B + (to.B-from.B)*t,
	}
}

// alphaOverWhite composites a color at the given opacity over a white
// background.
func alphaOverWhite(c colorful.Color, alpha float64) colorful.Color {
	a := clamp01(alpha)
	return colorful.Color{
		R: 1 - a + c.R*a,
		G: 1 - a + c.G*a,
		B: 1 - a + c.B*a,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// fraction returns the elapsed share of [start, end] clamped to [0,1]. A
// degenerate interval reads as all-or-nothing.
func fraction(now, start, end int64) float64 {
	if end <= start {
		if now >= end {
			return 1
		}
		return 0
	}
	return clamp01(float64(now-start) / float64(end-start))
}

// overdueWindowMillis is the post-due interval the overdue progress bar
// fills across.
func overdueWindowMillis(latenessDays int) int64 {
	if latenessDays < 1 {
		latenessDays = 1
	}
	return int64(latenessDays) * timeutil.MillisPerDay
}

// TimeLabel renders the compact duration to or past due, prefixed "+"
// once overdue.
func TimeLabel(nowMillis, dueMillis int64) string {
	if nowMillis > dueMillis {
		return "+" + timeutil.FormatCompact(nowMillis-dueMillis)
	}
	return timeutil.FormatCompact(dueMillis - nowMillis)
}

// PercentLabel renders elapsed progress as an integer percent: through
// [start, due] before due, through the lateness window after.
func PercentLabel(nowMillis, startMillis, dueMillis int64, latenessDays int) string {
	var percent int
	if nowMillis <= dueMillis {
		denom := dueMillis - startMillis
		if denom < 1 {
			denom = 1
		}
		elapsed := nowMillis - startMillis
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed > denom {
			elapsed = denom
		}
		percent = int(math.Round(float64(elapsed) / float64(denom) * 100))
	} else {
		window := overdueWindowMillis(latenessDays)
		pastDue := nowMillis - dueMillis
		percent = int(math.Round(float64(pastDue) / float64(window) * 100))
		if percent > 100 {
			percent = 100
		}
	}
	return fmt.Sprintf("%d%%", percent)
}

// PushSummary renders the accumulated push state as "P<count>+<dur>", or
// "" when the nag was never pushed.
func PushSummary(n *nag.Nag) string {
	if n.PushCount <= 0 || n.PushedTotalMillis <= 0 {
		return ""
	}
	return fmt.Sprintf("P%d+%s", n.PushCount, timeutil.FormatCompact(n.PushedTotalMillis))
}

// Line computes the visual for a nag and its resolved window. A nil
// window falls back to resolving at the reference instant; entries with
// no window at all render neutral.
func (m *Mapper) Line(n *nag.Nag, w *recurrence.DueWindow, nowMillis int64) Visual {
	if w == nil {
		if resolved, ok := m.Resolver.Window(n, nowMillis); ok {
			w = &resolved
		}
	}
	if w == nil {
		return Visual{
			Base:      m.Theme.White,
			Progress:  m.Theme.NoDueProgress,
			Fraction:  0,
			TextColor: m.Theme.Black,
		}
	}

	due := w.DueMillis
	v := Visual{
		TimeLabel:    TimeLabel(nowMillis, due),
		PercentLabel: PercentLabel(nowMillis, w.StartMillis, due, n.LatenessDays),
		TextColor:    m.Theme.Black,
	}
	if nowMillis > due && n.Weight >= 100 {
		v.TextColor = m.Theme.White
	}

	if nowMillis <= due {
		v.Fraction = fraction(nowMillis, w.StartMillis, due)

		if due-nowMillis > int64(m.Theme.PreDueWindowDays)*timeutil.MillisPerDay {
			v.Base = m.Theme.FarFutureBase
			v.Progress = alphaOverWhite(m.Theme.FarFutureProgress, 0.18)
			return v
		}

		strength := clamp01(float64(n.Weight) / 50)
		v.Base = alphaOverWhite(lerp(m.Theme.White, m.Theme.PreDueBase, strength), 0.18+0.60*strength)
		v.Progress = alphaOverWhite(lerp(m.Theme.PreDueBase, m.Theme.PreDueProgress, strength), 0.30+0.55*strength)
		return v
	}

	weight := n.Weight
	if weight < 50 {
		weight = 50
	}
	if weight > 100 {
		weight = 100
	}
	strength := float64(weight-50) / 50
	v.Base = alphaOverWhite(lerp(m.Theme.White, m.Theme.OverdueBase, strength), 0.28+0.45*strength)
	v.Progress = alphaOverWhite(lerp(m.Theme.OverdueBase, m.Theme.OverdueProgress, strength), 0.60+0.35*strength)
	v.Fraction = fraction(nowMillis, due, due+overdueWindowMillis(n.LatenessDays))
	return v
}
