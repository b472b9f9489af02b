package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// helpSections names the FullHelp groups in order.
var helpSections = []string{"NAVIGATION", "VIEW", "DATA"}

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	theme   Theme
	keys    KeyMap
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme, keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  keys,
	}
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay. Narrow screens get a single column of
// shortcuts without the box.
func (m HelpOverlayModel) View(compact bool) string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(12)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	for i, group := range m.keys.FullHelp() {
		if i < len(helpSections) {
			b.WriteString(sectionStyle.Render(helpSections[i]) + "\n")
		}
		for _, binding := range group {
			writeBinding(&b, binding, keyStyle.Render, descStyle.Render)
		}
		b.WriteString("\n")
	}

	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	if compact {
		return b.String()
	}
	return m.theme.PanelStyle().Padding(1, 2).Render(b.String())
}

func writeBinding(b *strings.Builder, binding key.Binding, keyFn, descFn func(...string) string) {
	if !binding.Enabled() {
		return
	}
	h := binding.Help()
	b.WriteString("  " + keyFn(h.Key) + descFn(h.Desc) + "\n")
}
