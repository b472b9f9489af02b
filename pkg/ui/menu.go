package ui

import (
	"strings"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// DrawerWidth is the width of the navigation menu, border included.
const DrawerWidth = 24

// menuItem is one entry of the layout menu. An empty mode means "follow
// the screen size".
type menuItem struct {
	label string
	mode  model.Mode
}

var menuItems = func() []menuItem {
	items := []menuItem{{label: "Fit to screen"}}
	for _, m := range model.Modes {
		items = append(items, menuItem{label: model.Column{Key: string(m)}.Title(), mode: m})
	}
	return items
}()

// MenuModel is the layout picker shown as a drawer on small screens and
// as a sidebar on desktop.
type MenuModel struct {
	cursor int
	theme  Theme
}

// NewMenuModel creates a menu with the cursor on the first entry.
func NewMenuModel(theme Theme) MenuModel {
	return MenuModel{theme: theme}
}

// MoveUp moves the cursor up, stopping at the first entry.
func (m *MenuModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor down, stopping at the last entry.
func (m *MenuModel) MoveDown() {
	if m.cursor < len(menuItems)-1 {
		m.cursor++
	}
}

// Selected returns the mode under the cursor; "" means fit to screen.
func (m MenuModel) Selected() model.Mode {
	return menuItems[m.cursor].mode
}

// View renders the menu. current marks the active override; the cursor
// only shows while the menu takes input.
func (m MenuModel) View(current model.Mode, height int, focused bool) string {
	t := m.theme
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("Layout")
	active := t.Renderer.NewStyle().Foreground(t.Success)
	cursor := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	plain := t.Renderer.NewStyle().Foreground(t.Subtext)

	lines := []string{title, ""}
	for i, item := range menuItems {
		marker := "  "
		if item.mode == current {
			marker = active.Render("● ")
		}
		label := plain.Render(item.label)
		if focused && i == m.cursor {
			label = cursor.Render("› " + item.label)
		}
		lines = append(lines, marker+label)
	}

	style := t.PanelStyle().Width(DrawerWidth - 2).Padding(0, 1)
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}
