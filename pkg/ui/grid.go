package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// tileWidth returns the outer width of one tile for n columns.
func tileWidth(total, n, gap int) int {
	if n < 1 {
		n = 1
	}
	w := (total - gap*(n-1)) / n
	if w < 8 {
		w = 8
	}
	return w
}

// renderGrid arranges tiles in rows of d.GridColumns. Tiles in a row are
// padded to the tallest one so borders line up.
func (v DataView) renderGrid(d layout.Decision) string {
	spec := v.manifest().Grid.Normalized()
	n := d.GridColumns
	if n < 1 {
		n = 1
	}

	box := v.Theme.PanelStyle().Padding(0, 1)
	outer := tileWidth(v.width(), n, spec.Gap)
	inner := outer - box.GetHorizontalFrameSize()
	gap := v.Theme.Renderer.NewStyle().PaddingRight(spec.Gap)

	records := v.pageRows(v.cardHeight(d.Columns), n)

	var rows []string
	for i := 0; i < len(records); i += n {
		end := i + n
		if end > len(records) {
			end = len(records)
		}
		bodies := make([]string, 0, end-i)
		height := 0
		for _, rec := range records[i:end] {
			body := v.cardBody(d.Columns, rec, inner)
			if h := lipgloss.Height(body); h > height {
				height = h
			}
			bodies = append(bodies, body)
		}
		tiles := make([]string, len(bodies))
		for j, body := range bodies {
			tile := box.Width(outer - box.GetHorizontalBorderSize()).Height(height).Render(body)
			if j < len(bodies)-1 {
				tile = gap.Render(tile)
			}
			tiles[j] = tile
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// pageRows is page for layouts that put perRow records side by side.
func (v DataView) pageRows(rowHeight, perRow int) model.Records {
	rs := v.page(0, 0)
	if v.Height <= 0 {
		return rs
	}
	rowsFit := v.Height / rowHeight
	if rowsFit < 1 {
		rowsFit = 1
	}
	if n := rowsFit * perRow; n < len(rs) {
		rs = rs[:n]
	}
	return rs
}
