// Package layout decides how a dataset is laid out for a breakpoint: the
// display mode, the visible columns and their order, and the text of each
// cell. Every function here is pure; the same inputs always give the same
// decision.
package layout

import (
	"sort"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// SelectMode returns the caller's preference for bp. An unset tablet
// preference follows the desktop one; unset mobile defaults to cards and
// unset desktop to table.
func SelectMode(bp viewport.Breakpoint, prefs model.Preferences) model.Mode {
	switch bp {
	case viewport.Mobile:
		if prefs.Mobile != "" {
			return prefs.Mobile
		}
		return model.ModeCards
	case viewport.Tablet:
		if prefs.Tablet != "" {
			return prefs.Tablet
		}
	}
	if prefs.Desktop != "" {
		return prefs.Desktop
	}
	return model.ModeTable
}

// AutoColumnCount returns how many tiles of spec.MinItemWidth fit in
// available, with spec.Gap between neighbours. The result is clamped to
// the count declared for bp and to spec.MaxColumns, and is never below 1.
func AutoColumnCount(available int, spec model.GridSpec, bp viewport.Breakpoint) int {
	spec = spec.Normalized()
	n := 0
	if available > 0 {
		n = (available + spec.Gap) / (spec.MinItemWidth + spec.Gap)
	}
	if declared := spec.Columns.For(bp); declared > 0 && n > declared {
		n = declared
	}
	if n > spec.MaxColumns {
		n = spec.MaxColumns
	}
	if n < 1 {
		n = 1
	}
	return n
}

// gridColumns sizes an explicitly requested grid: the declared count when
// there is one, otherwise whatever fits.
func gridColumns(available int, spec model.GridSpec, bp viewport.Breakpoint) int {
	spec = spec.Normalized()
	declared := spec.Columns.For(bp)
	if declared <= 0 {
		return AutoColumnCount(available, spec, bp)
	}
	if declared > spec.MaxColumns {
		declared = spec.MaxColumns
	}
	return declared
}

// Input is everything the policy looks at.
type Input struct {
	Breakpoint viewport.Breakpoint
	// Width is the space available to the component.
	Width    int
	Prefs    model.Preferences
	Columns  []model.Column
	Grid     model.GridSpec
	Chart    *model.ChartSpec
	Override model.Mode // forces a mode when set
}

// InputFor builds an Input from a manifest.
func InputFor(m *model.Manifest, bp viewport.Breakpoint, width int) Input {
	in := Input{Breakpoint: bp, Width: width}
	if m != nil {
		in.Prefs = m.Layout
		in.Columns = m.Columns
		in.Grid = m.Grid
		in.Chart = m.Chart
	}
	return in
}

// Decision is the outcome of the policy for one render pass.
type Decision struct {
	// Requested is the mode asked for, possibly ModeAuto.
	Requested model.Mode
	// Mode is what gets rendered; never ModeAuto.
	Mode           model.Mode
	Columns        []model.Column
	GridColumns    int
	ChartAvailable bool
}

// Decide evaluates the policy.
func Decide(in Input) Decision {
	requested := in.Override
	if requested == "" || !requested.IsValid() {
		requested = SelectMode(in.Breakpoint, in.Prefs)
	}
	d := Decision{Requested: requested, Mode: requested}

	switch requested {
	case model.ModeAuto:
		d.Mode = model.ModeGrid
		d.GridColumns = AutoColumnCount(in.Width, in.Grid, in.Breakpoint)
	case model.ModeGrid:
		d.GridColumns = gridColumns(in.Width, in.Grid, in.Breakpoint)
	case model.ModeChart:
		d.ChartAvailable = in.Chart.Usable()
	}
	d.Columns = VisibleColumns(d.Mode, in.Columns)
	return d
}

// VisibleColumns returns the columns shown in mode, in display order.
// Stacked modes drop mobile-hidden columns and sort by MobileOrder
// ascending with unset orders last; ties keep declaration order. Every
// other mode shows all columns as declared.
func VisibleColumns(mode model.Mode, cols []model.Column) []model.Column {
	if !mode.IsStacked() {
		out := make([]model.Column, len(cols))
		copy(out, cols)
		return out
	}
	out := make([]model.Column, 0, len(cols))
	for _, c := range cols {
		if !c.MobileHidden {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MobileOrder, out[j].MobileOrder
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}

// Keys returns the keys of cols.
func Keys(cols []model.Column) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}
