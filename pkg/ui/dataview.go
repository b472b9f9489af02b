package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// Component dimension constraints, in cells.
const (
	// MinBoxWidth is the minimum width for bordered content boxes.
	MinBoxWidth = 20

	// MinContentHeight is the minimum height for scrollable content areas.
	MinContentHeight = 5

	// skeletonRows is how many placeholder rows, cards or bars a loading
	// view shows.
	skeletonRows = 3
)

// DataView renders a dataset according to the layout policy. It is a
// value type: build one per frame from the current breakpoint and data.
type DataView struct {
	Theme      Theme
	Manifest   *model.Manifest
	Records    model.Records
	Loading    bool
	Breakpoint viewport.Breakpoint
	// Width and Height are the cells available to the view. Height 0 means
	// unbounded.
	Width  int
	Height int
	// Override forces a mode regardless of the breakpoint preference.
	Override model.Mode
	// Offset is the index of the first record shown.
	Offset int
	// Hyperlinks wraps link cells in OSC 8 terminal hyperlinks.
	Hyperlinks bool
}

func (v DataView) manifest() *model.Manifest {
	return v.Manifest.WithInferredColumns(v.Records)
}

func (v DataView) width() int {
	if v.Width < MinBoxWidth {
		return MinBoxWidth
	}
	return v.Width
}

// Decision evaluates the layout policy for the view.
func (v DataView) Decision() layout.Decision {
	in := layout.InputFor(v.manifest(), v.Breakpoint, v.width())
	in.Override = v.Override
	return layout.Decide(in)
}

// View renders the dataset, or the placeholder that stands in for it.
func (v DataView) View() string {
	d := v.Decision()
	if d.Mode == model.ModeChart && !d.ChartAvailable {
		return v.renderNotAvailable("chart")
	}
	switch layout.State(v.Loading, len(v.Records)) {
	case layout.Loading:
		return v.renderSkeleton(d)
	case layout.Empty:
		return v.renderEmpty()
	}

	switch d.Mode {
	case model.ModeCards:
		return v.renderCards(d)
	case model.ModeList:
		return v.renderList(d)
	case model.ModeGrid:
		return v.renderGrid(d)
	case model.ModeChart:
		return v.renderChart()
	default:
		return v.renderTable(d)
	}
}

// page returns the records that fit, starting at Offset. perItem is the
// height of one record and chrome the fixed lines around them.
func (v DataView) page(perItem, chrome int) model.Records {
	rs := v.Records
	if len(rs) == 0 {
		return rs
	}
	start := v.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(rs) {
		start = len(rs) - 1
	}
	rs = rs[start:]
	if v.Height <= 0 || perItem <= 0 {
		return rs
	}
	n := (v.Height - chrome) / perItem
	if n < 1 {
		n = 1
	}
	if n < len(rs) {
		rs = rs[:n]
	}
	return rs
}

// cell returns the display text of one cell, styled for its format.
func (v DataView) cell(col model.Column, rec model.Record, maxWidth int) string {
	text := layout.CellText(col, rec)
	if col.Width > 0 && (maxWidth <= 0 || col.Width < maxWidth) {
		maxWidth = col.Width
	}
	if maxWidth > 0 {
		text = layout.Truncate(text, maxWidth)
	}
	if text == layout.Missing || col.Render != nil {
		return text
	}
	switch col.Format {
	case model.FormatBadge:
		return v.Theme.RenderBadge(text)
	case model.FormatLink:
		if v.Hyperlinks {
			if url, ok := rec.Field(col.Key); ok {
				return ansi.SetHyperlink(model.Stringify(url)) + text + ansi.ResetHyperlink()
			}
		}
	}
	return text
}

// pad right-aligns or centers s within width according to align.
func pad(s string, width int, align model.Align) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case model.AlignRight:
		return strings.Repeat(" ", gap) + s
	case model.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
