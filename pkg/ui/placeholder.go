package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// skeletonBar is a shaded block standing in for text that has not loaded.
func (v DataView) skeletonBar(width int) string {
	if width < 1 {
		width = 1
	}
	return v.Theme.Renderer.NewStyle().Foreground(v.Theme.Border).Render(strings.Repeat("░", width))
}

// skeletonWidths varies bar lengths so the placeholder reads as text.
var skeletonWidths = []float64{0.8, 0.55, 0.7, 0.4}

func skeletonWidth(i, width int) int {
	return int(skeletonWidths[i%len(skeletonWidths)] * float64(width))
}

// renderSkeleton draws the shape of the selected mode without data. Column
// titles come from the manifest; no record or render function is touched.
func (v DataView) renderSkeleton(d layout.Decision) string {
	t := v.Theme
	width := v.width()
	cols := d.Columns
	labelCount := len(cols)
	if labelCount == 0 || labelCount > skeletonRows {
		labelCount = skeletonRows
	}

	switch d.Mode {
	case model.ModeTable:
		if len(cols) == 0 {
			break
		}
		cellWidth := (width-len(cols)-1)/len(cols) - 2
		header := make([]string, len(cols))
		for i, c := range cols {
			header[i] = pad(layout.Truncate(c.Title(), cellWidth), cellWidth, model.AlignLeft)
		}
		lines := []string{t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary).Render(strings.Join(header, "  "))}
		for r := 0; r < skeletonRows; r++ {
			cells := make([]string, len(cols))
			for i := range cols {
				cells[i] = pad(v.skeletonBar(skeletonWidth(r+i, cellWidth)), cellWidth, model.AlignLeft)
			}
			lines = append(lines, strings.Join(cells, "  "))
		}
		return t.PanelStyle().Width(width - 2).Render(strings.Join(lines, "\n"))

	case model.ModeCards, model.ModeGrid:
		n := 1
		if d.Mode == model.ModeGrid && d.GridColumns > 1 {
			n = d.GridColumns
		}
		box := t.PanelStyle().Padding(0, 1)
		outer := tileWidth(width, n, model.DefaultGridGap)
		inner := outer - box.GetHorizontalFrameSize()
		tiles := make([]string, n)
		for i := range tiles {
			lines := make([]string, labelCount)
			for j := range lines {
				lines[j] = v.skeletonBar(skeletonWidth(i+j, inner))
			}
			tile := box.Width(outer - box.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
			if i < n-1 {
				tile = t.Renderer.NewStyle().PaddingRight(model.DefaultGridGap).Render(tile)
			}
			tiles[i] = tile
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
		if d.Mode == model.ModeGrid {
			return row
		}
		return lipgloss.JoinVertical(lipgloss.Left, row, row)
	}

	// list, chart
	lines := make([]string, skeletonRows)
	for i := range lines {
		lines[i] = v.skeletonBar(skeletonWidth(i, width-2))
	}
	return strings.Join(lines, "\n")
}

// renderEmpty shows the manifest's empty-state message.
func (v DataView) renderEmpty() string {
	t := v.Theme
	msg := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render(v.manifest().Empty())
	return t.PanelStyle().
		Width(v.width()-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(msg)
}

// renderNotAvailable replaces a display mode whose configuration is
// missing.
func (v DataView) renderNotAvailable(what string) string {
	t := v.Theme
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Warning).Render(strings.ToUpper(what[:1]) + what[1:] + " not available")
	hint := t.Renderer.NewStyle().Foreground(t.Subtext).Render("No configuration for this view. Pick another mode.")
	return t.PanelStyle().
		BorderForeground(t.Warning).
		Width(v.width()-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, hint))
}
