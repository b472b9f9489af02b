package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// cardBody lays out label:value pairs for one record. The hidden-border
// table only aligns the two columns; the enclosing box draws the chrome.
func (v DataView) cardBody(cols []model.Column, rec model.Record, innerWidth int) string {
	t := v.Theme
	labelWidth := 5
	for _, c := range cols {
		if w := ansi.StringWidth(c.Title()); w > labelWidth {
			labelWidth = w
		}
	}
	if limit := innerWidth / 2; labelWidth > limit {
		labelWidth = limit
	}
	labelWidth++

	valueWidth := innerWidth - labelWidth - 2
	body := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return t.Renderer.NewStyle().Foreground(t.Secondary).Width(labelWidth)
			}
			return t.Renderer.NewStyle()
		})
	for _, c := range cols {
		body.Row(layout.Truncate(c.Title(), labelWidth-1), v.cell(c, rec, valueWidth))
	}
	return body.String()
}

func (v DataView) cardHeight(cols []model.Column) int {
	return len(cols) + 2
}

// renderCards stacks one bordered block per record, full width.
func (v DataView) renderCards(d layout.Decision) string {
	box := v.Theme.PanelStyle().Padding(0, 1)
	box = box.Width(v.width() - box.GetHorizontalBorderSize())
	inner := v.width() - box.GetHorizontalFrameSize()

	var blocks []string
	for _, rec := range v.page(v.cardHeight(d.Columns), 0) {
		blocks = append(blocks, box.Render(v.cardBody(d.Columns, rec, inner)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// renderList shows one line per record: the first visible column in bold
// followed by the others, separated by dots.
func (v DataView) renderList(d layout.Decision) string {
	t := v.Theme
	if len(d.Columns) == 0 {
		return ""
	}
	lead := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	rest := t.Renderer.NewStyle().Foreground(t.Subtext)
	bullet := t.Renderer.NewStyle().Foreground(t.Secondary).Render("• ")
	width := v.width() - 2

	var lines []string
	for _, rec := range v.page(1, 0) {
		parts := make([]string, 0, len(d.Columns)-1)
		for _, c := range d.Columns[1:] {
			parts = append(parts, v.cell(c, rec, width))
		}
		line := lead.Render(v.cell(d.Columns[0], rec, width))
		if len(parts) > 0 {
			line += rest.Render(" · " + strings.Join(parts, " · "))
		}
		lines = append(lines, bullet+ansi.Truncate(line, width, "…"))
	}
	return strings.Join(lines, "\n")
}
