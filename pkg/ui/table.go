package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// tableChrome is the border, header and header separator lines.
const tableChrome = 4

// renderTable draws one row per record with every visible column.
func (v DataView) renderTable(d layout.Decision) string {
	t := v.Theme
	cols := d.Columns
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title()
	}

	// Cells share the width evenly before lipgloss shrinks the widest ones.
	maxCell := 0
	if len(cols) > 0 {
		maxCell = (v.width() - len(cols) - 1) / len(cols) * 2
	}

	headerStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1)
	cellStyle := t.Renderer.NewStyle().Padding(0, 1)
	altStyle := cellStyle.Foreground(t.Subtext)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.Renderer.NewStyle().Foreground(t.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if row%2 == 1 {
				style = altStyle
			}
			if col < len(cols) {
				switch cols[col].Align {
				case model.AlignRight:
					style = style.Align(lipgloss.Right)
				case model.AlignCenter:
					style = style.Align(lipgloss.Center)
				}
			}
			return style
		}).
		Width(v.width())

	for _, rec := range v.page(1, tableChrome) {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = v.cell(c, rec, maxCell)
		}
		tbl.Row(row...)
	}
	return tbl.String()
}
