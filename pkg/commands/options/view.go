// Package options defines shared flag helpers for CLI commands.
package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/nag/pkg/view"
)

// ViewOptions captures visibility and ordering flags for list commands.
type ViewOptions struct {
	Bucket      string
	Project     string
	Sort        string
	HorizonDays int
	AllWindows  bool
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "",
		"Limit to one bucket, default is all of them.")
	cmd.Flags().StringVarP(&o.Project, "project", "p", "",
		"Limit to one project in the Project bucket.")
	cmd.Flags().StringVarP(&o.Sort, "sort", "s", string(view.SortSmart),
		"Entry ordering. One of 'smart', 'due', 'weight' or 'entered'.")
	cmd.Flags().IntVar(&o.HorizonDays, "horizon", 0,
		"Days of look-ahead for recurring nags, 0 for the default.")
}

func AddAllWindowsArg(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().BoolVar(&o.AllWindows, "all-windows", false,
		"Expand every due window inside the horizon instead of just the next one.")
}

// SortMode validates and converts the sort flag.
func (o *ViewOptions) SortMode() (view.SortMode, error) {
	switch view.SortMode(o.Sort) {
	case view.SortSmart, view.SortDue, view.SortWeight, view.SortEntered:
		return view.SortMode(o.Sort), nil
	default:
		return "", fmt.Errorf("unknown sort %q", o.Sort)
	}
}

// KeyOptions toggles entry key display for scripting.
type KeyOptions struct {
	ShowKeys bool
}

func AddShowKeysArg(cmd *cobra.Command, o *KeyOptions) {
	cmd.Flags().BoolVar(&o.ShowKeys, "show-keys", false,
		"Show the stable entry keys.")
}

// CalendarOptions selects the month-grid rendering.
type CalendarOptions struct {
	Calendar bool
	Year     bool
}

func AddCalendarArgs(cmd *cobra.Command, o *CalendarOptions) {
	cmd.Flags().BoolVar(&o.Calendar, "calendar", false,
		"Print a month grid of due occurrences instead of entry lines.")
	cmd.Flags().BoolVar(&o.Year, "year", false,
		"With --calendar, print all twelve months.")
}
