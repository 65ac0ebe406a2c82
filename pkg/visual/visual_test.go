package visual

import (
	"math"
	"testing"
	"time"

	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/timeutil"
)

func newMapper() *Mapper {
	return NewMapper(recurrence.NewResolver(time.UTC))
}

func colorsClose(a, b [3]float64) bool {
	const eps = 1e-9
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

func TestTimeLabel(t *testing.T) {
	now := int64(1000 * timeutil.MillisPerHour)
	if got := TimeLabel(now, now+36*timeutil.MillisPerHour); got != "1d" {
		t.Fatalf("pre-due label: %q", got)
	}
	if got := TimeLabel(now, now-timeutil.MillisPerHour); got != "+1h" {
		t.Fatalf("overdue label: %q", got)
	}
	if got := TimeLabel(now, now); got != "0ms" {
		t.Fatalf("due-now label: %q", got)
	}
}

func TestPercentLabel(t *testing.T) {
	start := int64(0)
	due := int64(100 * timeutil.MillisPerHour)

	if got := PercentLabel(50*timeutil.MillisPerHour, start, due, 7); got != "50%" {
		t.Fatalf("midway percent: %q", got)
	}
	if got := PercentLabel(due, start, due, 7); got != "100%" {
		t.Fatalf("due-instant percent: %q", got)
	}
	// 1h past due on a 7-day lateness window rounds to 1%.
	if got := PercentLabel(due+timeutil.MillisPerHour, start, due, 7); got != "1%" {
		t.Fatalf("overdue percent: %q", got)
	}
	// Deep overdue clamps at 100%.
	if got := PercentLabel(due+30*timeutil.MillisPerDay, start, due, 7); got != "100%" {
		t.Fatalf("clamped overdue percent: %q", got)
	}
	// Degenerate interval floors the denominator instead of dividing by zero.
	if got := PercentLabel(due, due, due, 7); got != "0%" {
		t.Fatalf("degenerate interval percent: %q", got)
	}
}

func TestPushSummary(t *testing.T) {
	n := &nag.Nag{}
	if got := PushSummary(n); got != "" {
		t.Fatalf("unpushed summary: %q", got)
	}
	n.PushCount = 2
	n.PushedTotalMillis = 3 * timeutil.MillisPerDay
	if got := PushSummary(n); got != "P2+3d" {
		t.Fatalf("push summary: %q", got)
	}
}

func TestLineNoWindowIsNeutral(t *testing.T) {
	m := newMapper()
	n := &nag.Nag{WorkName: "w", Mode: nag.ModeOneTime}

	v := m.Line(n, nil, 0)
	if v.TimeLabel != "" || v.PercentLabel != "" {
		t.Fatalf("neutral labels: %q %q", v.TimeLabel, v.PercentLabel)
	}
	if v.Fraction != 0 {
		t.Fatalf("neutral fraction: %v", v.Fraction)
	}
	if !colorsClose([3]float64{v.Base.R, v.Base.G, v.Base.B}, [3]float64{1, 1, 1}) {
		t.Fatalf("neutral base: %+v", v.Base)
	}
}

func TestLineOverdueScenario(t *testing.T) {
	// Created at T0, due T0+24h, weight 80, lateness 7 days, observed at
	// T0+25h: one hour overdue.
	m := newMapper()
	t0 := int64(1700000000000)
	due := t0 + 24*timeutil.MillisPerHour
	n := &nag.Nag{
		WorkName:         "scenario",
		Mode:             nag.ModeOneTime,
		Weight:           80,
		LatenessDays:     7,
		OneTimeDueMillis: &due,
		CreatedAtMillis:  t0,
	}

	v := m.Line(n, nil, t0+25*timeutil.MillisPerHour)
	if v.TimeLabel != "+1h" {
		t.Fatalf("time label: %q", v.TimeLabel)
	}
	if v.PercentLabel != "1%" {
		t.Fatalf("percent label: %q", v.PercentLabel)
	}
	wantFraction := float64(timeutil.MillisPerHour) / float64(7*timeutil.MillisPerDay)
	if math.Abs(v.Fraction-wantFraction) > 1e-9 {
		t.Fatalf("fraction: %v, want %v", v.Fraction, wantFraction)
	}
	// Weight 80 maps to overdue strength 0.6.
	wantBase := alphaOverWhite(lerp(m.Theme.White, m.Theme.OverdueBase, 0.6), 0.28+0.45*0.6)
	if !colorsClose([3]float64{v.Base.R, v.Base.G, v.Base.B}, [3]float64{wantBase.R, wantBase.G, wantBase.B}) {
		t.Fatalf("overdue base color: %+v, want %+v", v.Base, wantBase)
	}
	// Text stays black below the weight-100 ceiling.
	if !colorsClose([3]float64{v.TextColor.R, v.TextColor.G, v.TextColor.B}, [3]float64{0, 0, 0}) {
		t.Fatalf("text color: %+v", v.TextColor)
	}
}

func TestLineTextFlipsWhiteAtCeiling(t *testing.T) {
	m := newMapper()
	t0 := int64(1700000000000)
	due := t0 + timeutil.MillisPerHour
	n := &nag.Nag{
		WorkName:         "max",
		Mode:             nag.ModeOneTime,
		Weight:           100,
		LatenessDays:     1,
		OneTimeDueMillis: &due,
		CreatedAtMillis:  t0,
	}

	v := m.Line(n, nil, due+1)
	if !colorsClose([3]float64{v.TextColor.R, v.TextColor.G, v.TextColor.B}, [3]float64{1, 1, 1}) {
		t.Fatalf("ceiling text color: %+v", v.TextColor)
	}

	// Same weight but not yet due: black text.
	v = m.Line(n, nil, due-1)
	if !colorsClose([3]float64{v.TextColor.R, v.TextColor.G, v.TextColor.B}, [3]float64{0, 0, 0}) {
		t.Fatalf("pre-due text color: %+v", v.TextColor)
	}
}

func TestLineFarFutureRegime(t *testing.T) {
	m := newMapper()
	t0 := int64(1700000000000)
	due := t0 + 60*timeutil.MillisPerDay
	n := &nag.Nag{
		WorkName:         "far",
		Mode:             nag.ModeOneTime,
		Weight:           100,
		LatenessDays:     7,
		OneTimeDueMillis: &due,
		CreatedAtMillis:  t0,
	}

	v := m.Line(n, nil, t0+timeutil.MillisPerDay)
	want := alphaOverWhite(m.Theme.FarFutureProgress, 0.18)
	if !colorsClose([3]float64{v.Progress.R, v.Progress.G, v.Progress.B}, [3]float64{want.R, want.G, want.B}) {
		t.Fatalf("far-future progress color: %+v, want %+v", v.Progress, want)
	}
	if !colorsClose([3]float64{v.Base.R, v.Base.G, v.Base.B}, [3]float64{1, 1, 1}) {
		t.Fatalf("far-future base color: %+v", v.Base)
	}
}

func TestLinePreDueRegimeScalesWithWeight(t *testing.T) {
	m := newMapper()
	t0 := int64(1700000000000)
	due := t0 + 5*timeutil.MillisPerDay
	mk := func(weight int) *nag.Nag {
		return &nag.Nag{
			WorkName:         "pre",
			Mode:             nag.ModeOneTime,
			Weight:           weight,
			LatenessDays:     7,
			OneTimeDueMillis: &due,
			CreatedAtMillis:  t0,
		}
	}
	now := t0 + timeutil.MillisPerDay

	// Weight 50 saturates the pre-due strength at 1.
	v := m.Line(mk(50), nil, now)
	wantBase := alphaOverWhite(m.Theme.PreDueBase, 0.78)
	if !colorsClose([3]float64{v.Base.R, v.Base.G, v.Base.B}, [3]float64{wantBase.R, wantBase.G, wantBase.B}) {
		t.Fatalf("saturated pre-due base: %+v, want %+v", v.Base, wantBase)
	}

	// Weight 0 renders nearly white.
	v = m.Line(mk(0), nil, now)
	wantBase = alphaOverWhite(m.Theme.White, 0.18)
	if !colorsClose([3]float64{v.Base.R, v.Base.G, v.Base.B}, [3]float64{wantBase.R, wantBase.G, wantBase.B}) {
		t.Fatalf("zero-weight pre-due base: %+v, want %+v", v.Base, wantBase)
	}

	if math.Abs(v.Fraction-0.2) > 1e-9 {
		t.Fatalf("pre-due fraction: %v", v.Fraction)
	}
}
