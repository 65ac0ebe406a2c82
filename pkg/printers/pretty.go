// Package printers renders reconciled nag state for the terminal.
package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"

	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/view"
	"tableflip.dev/nag/pkg/visual"
)

// barWidth is the character width of the progress fill.
const barWidth = 20

type PrettyPrint struct {
	ShowKeys bool
	Mapper   *visual.Mapper
	Loc      *time.Location
}

var (
	spacing = strings.Repeat(" ", len("pay-rent_1700000000000  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowKeys {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowKeys {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" nag")
	default:
		_, _ = c.Println(" nags")
	}
}

// Entries prints one colored line per entry: progress bar, icon, name,
// recurrence and push markers, then the due and percent labels.
func (pp *PrettyPrint) Entries(nowMillis int64, entries ...view.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowKeys {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	for _, e := range entries {
		if pp.ShowKeys {
			_, _ = y.Print(e.Key)
			if pad := len(spacing) - len(e.Key); pad > 0 {
				_, _ = y.Print(strings.Repeat(" ", pad))
			} else {
				_, _ = y.Print("  ")
			}
		}

		if e.TaskCount > 0 {
			// Project overview line: no window, show the task count.
			_, _ = t.Printf("%s", e.Nag.EffectiveProjectName())
			_, _ = faint.Printf(" - %d tasks\n", e.TaskCount)
			continue
		}

		v := pp.Mapper.Line(e.Nag, e.Window, nowMillis)
		_, _ = t.Printf("%s %s%s", pp.bar(v), glyphOrDot(e.Nag.IconGlyph), e.Nag.WorkName)
		if marker := e.Nag.RecurringIndicator(); marker != "" {
			_, _ = faint.Printf(" [%s]", marker)
		}
		if push := visual.PushSummary(e.Nag); push != "" {
			_, _ = faint.Printf(" [%s]", push)
		}
		if v.TimeLabel != "" {
			_, _ = t.Printf("  %s %s", v.TimeLabel, v.PercentLabel)
		}
		if e.Window != nil {
			_, _ = faint.Printf("  due %s", timeutil.FormatLocal(e.Window.DueMillis, pp.Loc))
		}
		_, _ = t.Println("")
	}
	_, _ = t.Println("")
}

// bar renders the horizontal fill for a visual as a fixed-width block
// run, progress color over base color.
func (pp *PrettyPrint) bar(v visual.Visual) string {
	filled := int(v.Fraction * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Progress.Hex()))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Base.Hex()))
	return fill.Render(strings.Repeat("█", filled)) + rest.Render(strings.Repeat("░", barWidth-filled))
}

func glyphOrDot(glyph string) string {
	if glyph == "" {
		return ""
	}
	return glyph + " "
}
