package ui

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// DetailSplitWidth is the minimum width, in cells, at which the record
// detail opens beside the data instead of replacing it.
const DetailSplitWidth = 120

// DetailModel shows every field of one record in a scrollable pane.
type DetailModel struct {
	pane    viewport.Model
	theme   Theme
	record  model.Record
	cols    []model.Column
	width   int
	visible bool
}

// NewDetailModel creates a hidden detail pane.
func NewDetailModel(theme Theme) DetailModel {
	pane := viewport.New(40, 20)
	pane.Style = lipgloss.NewStyle()
	return DetailModel{pane: pane, theme: theme, width: 44}
}

// Show opens the pane on rec in a panel width cells wide. Columns come
// first in manifest order, mobile-hidden ones included; fields the
// manifest does not name follow.
func (m *DetailModel) Show(rec model.Record, cols []model.Column, width int) {
	m.record = rec
	m.cols = cols
	m.visible = true
	m.width = width
	m.pane.SetContent(m.content(rec, cols, m.wrapWidth()))
	m.pane.GotoTop()
}

// SetWidth re-wraps the open record for a panel width cells wide.
func (m *DetailModel) SetWidth(width int) {
	if width == m.width {
		return
	}
	m.width = width
	if m.visible {
		m.pane.SetContent(m.content(m.record, m.cols, m.wrapWidth()))
	}
}

// Hide closes the pane.
func (m *DetailModel) Hide() {
	m.visible = false
	m.record = nil
	m.cols = nil
}

// wrapWidth is the text width inside the panel border and padding.
func (m DetailModel) wrapWidth() int {
	return max(m.width-4, 10)
}

// IsVisible returns true if the pane is open.
func (m DetailModel) IsVisible() bool {
	return m.visible
}

// Record returns the record on display.
func (m DetailModel) Record() model.Record {
	return m.record
}

// ScrollUp scrolls the pane up one line.
func (m *DetailModel) ScrollUp() {
	m.pane.LineUp(1)
}

// ScrollDown scrolls the pane down one line.
func (m *DetailModel) ScrollDown() {
	m.pane.LineDown(1)
}

// View renders the pane in a panel of width×height cells, border included.
func (m DetailModel) View(width, height int) string {
	m.pane.Width = max(width-4, 1)
	m.pane.Height = max(height-2, 1)
	return m.theme.FocusedPanelStyle().Padding(0, 1).Render(m.pane.View())
}

func (m DetailModel) content(rec model.Record, cols []model.Column, wrap int) string {
	named := make(map[string]bool, len(cols))
	all := make([]model.Column, 0, len(cols))
	for _, c := range cols {
		named[c.Key] = true
		all = append(all, c)
	}
	for _, k := range (model.Records{rec}).Keys() {
		if !named[k] {
			all = append(all, model.Column{Key: k})
		}
	}

	labelWidth := 0
	for _, c := range all {
		labelWidth = max(labelWidth, ansi.StringWidth(c.Title()))
	}
	label := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)

	lines := make([]string, 0, len(all))
	for _, c := range all {
		title := c.Title()
		if c.Format == model.FormatMarkdown && c.Render == nil {
			if v, ok := rec.Field(c.Key); ok {
				lines = append(lines, label.Render(title))
				lines = append(lines, m.markdown(model.Stringify(v), wrap))
				continue
			}
		}
		lines = append(lines, label.Render(title)+strings.Repeat(" ", labelWidth-ansi.StringWidth(title))+"  "+layout.CellText(c, rec))
	}
	return strings.Join(lines, "\n")
}

// markdown renders src as a block wrapped to wrap cells. It falls back to
// the raw text when glamour cannot render it.
func (m DetailModel) markdown(src string, wrap int) string {
	style := styles.LightStyle
	if m.theme.Renderer.HasDarkBackground() {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// RecordJSON encodes rec as a single line of JSON with sorted keys.
func RecordJSON(rec model.Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
