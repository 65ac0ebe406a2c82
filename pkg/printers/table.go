package printers

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/nag"
	"tableflip.dev/nag/pkg/recurrence"
	"tableflip.dev/nag/pkg/timeutil"
)

// Detail prints one nag's full state as a field table.
func (pp *PrettyPrint) Detail(n *nag.Nag, w *recurrence.DueWindow, nowMillis int64) {
	tbl := uitable.New()
	tbl.MaxColWidth = 72

	tbl.AddRow("WORK", n.WorkName)
	tbl.AddRow("TEXT", n.Text)
	tbl.AddRow("BUCKET", n.Bucket)
	if name := n.EffectiveProjectName(); name != "" {
		tbl.AddRow("PROJECT", name)
	}
	tbl.AddRow("MODE", string(n.Mode))
	if n.Mode == nag.ModeMonthly {
		tbl.AddRow("PATTERN", string(n.RecurringPattern))
		if marker := n.RecurringIndicator(); marker != "" {
			tbl.AddRow("MARKER", marker)
		}
	}
	tbl.AddRow("WEIGHT", fmt.Sprintf("%d", n.Weight))
	tbl.AddRow("LATENESS", fmt.Sprintf("%dd", n.LatenessDays))
	tbl.AddRow("CREATED", timeutil.FormatLocal(n.CreatedAtMillis, pp.Loc))
	if w != nil {
		tbl.AddRow("WINDOW START", timeutil.FormatLocal(w.StartMillis, pp.Loc))
		tbl.AddRow("DUE", timeutil.FormatLocal(w.DueMillis, pp.Loc))
		if w.SourceDueMillis != w.DueMillis {
			tbl.AddRow("SOURCE DUE", timeutil.FormatLocal(w.SourceDueMillis, pp.Loc))
		}
	} else {
		tbl.AddRow("DUE", "none")
	}
	if push := fmt.Sprintf("%d", n.PushCount); n.PushCount > 0 {
		tbl.AddRow("PUSHES", fmt.Sprintf("%s (+%s)", push, timeutil.FormatCompact(n.PushedTotalMillis)))
	}
	if len(n.SkippedDueMillis) > 0 {
		tbl.AddRow("COMPLETED", fmt.Sprintf("%d occurrences", len(n.SkippedDueMillis)))
	}

	fmt.Println(tbl)
	fmt.Println("")
}

// Report prints the per-bucket summary plus log diagnostics.
func (pp *PrettyPrint) Report(r app.Report) {
	tbl := uitable.New()
	tbl.AddRow("BUCKET", "TOTAL", "OVERDUE", "DUE SOON", "NO DUE")
	for _, b := range r.Buckets {
		tbl.AddRow(b.Bucket, b.Total, b.Overdue, b.DueSoon, b.NoDue)
	}
	fmt.Println(tbl)

	sources := make([]string, 0, len(r.SourceCounts))
	for source, count := range r.SourceCounts {
		marker := ""
		if source == r.PrimarySource {
			marker = "*"
		}
		sources = append(sources, fmt.Sprintf("%s%s:%d", source, marker, count))
	}
	fmt.Printf("\nrows %d, payloads %d, valid %d", r.RowCount, r.PayloadRows, r.ValidNagRows)
	if len(sources) > 0 {
		fmt.Printf(", sources %s", strings.Join(sources, " "))
	}
	fmt.Println("")
}

// Buckets prints the available bucket labels.
func (pp *PrettyPrint) Buckets(names []string) {
	tbl := uitable.New()
	tbl.AddRow("BUCKET")
	for _, name := range names {
		tbl.AddRow(name)
	}
	fmt.Println(tbl)
	fmt.Println("")
}
