// Package theme centralizes the color palette used by the visual mapper
// and terminal shells, so alternate palettes can be injected under test.
package theme

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PreDueWindowDays is the default bound on the "near due" color regime.
const PreDueWindowDays = 14

// Theme is the immutable palette and tuning for due-proximity rendering.
type Theme struct {
	PreDueBase        colorful.Color
	PreDueProgress    colorful.Color
	OverdueBase       colorful.Color
	OverdueProgress   colorful.Color
	FarFutureBase     colorful.Color
	FarFutureProgress colorful.Color
	NoDueProgress     colorful.Color

	White colorful.Color
	Black colorful.Color

	// PreDueWindowDays bounds the "near due" color regime; farther-out
	// items render with the far-future palette.
	PreDueWindowDays int
}

// Default returns the built-in palette.
func Default() Theme {
	return Theme{
		PreDueBase:        mustHex("#FFF9C4"),
		PreDueProgress:    mustHex("#FBC02D"),
		OverdueBase:       mustHex("#FFCDD2"),
		OverdueProgress:   mustHex("#FF0000"),
		FarFutureBase:     mustHex("#FFFFFF"),
		FarFutureProgress: mustHex("#D5D5D5"),
		NoDueProgress:     mustHex("#EDEDED"),
		White:             mustHex("#FFFFFF"),
		Black:             mustHex("#000000"),
		PreDueWindowDays:  PreDueWindowDays,
	}
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
