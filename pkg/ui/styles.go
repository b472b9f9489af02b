package ui

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired with extended semantic colors
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorMuted = lipgloss.Color("#6272A4")

	// Primary accent colors
	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
	ColorPink    = lipgloss.Color("#FF79C6")
	ColorYellow  = lipgloss.Color("#F1FA8C")
)

// badgePalette holds foreground/background pairs for badge cells.
var badgePalette = []struct{ fg, bg lipgloss.Color }{
	{ColorSuccess, lipgloss.Color("#1A3D2A")},
	{ColorInfo, lipgloss.Color("#1A3344")},
	{ColorWarning, lipgloss.Color("#3D2A1A")},
	{ColorPrimary, lipgloss.Color("#2A1A3D")},
	{ColorPink, lipgloss.Color("#3D1A2E")},
	{ColorYellow, lipgloss.Color("#3D3D1A")},
}

// Well-known badge values get fixed colors; everything else hashes into
// badgePalette so the same value always looks the same.
var badgeColors = map[string]struct{ fg, bg lipgloss.Color }{
	"OPEN":        {ColorSuccess, lipgloss.Color("#1A3D2A")},
	"ACTIVE":      {ColorSuccess, lipgloss.Color("#1A3D2A")},
	"IN PROGRESS": {ColorInfo, lipgloss.Color("#1A3344")},
	"PENDING":     {ColorWarning, lipgloss.Color("#3D2A1A")},
	"BLOCKED":     {ColorDanger, lipgloss.Color("#3D1A1A")},
	"FAILED":      {ColorDanger, lipgloss.Color("#3D1A1A")},
	"CLOSED":      {ColorMuted, lipgloss.Color("#2A2A3D")},
	"DONE":        {ColorMuted, lipgloss.Color("#2A2A3D")},
}

// Theme carries the adaptive colors every renderer uses. Renderer binds
// styles to an output so tests can force a color profile.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
}

// DefaultTheme returns the palette bound to r. A nil r uses the default
// renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#363949"},
		Success:   lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},
		Warning:   lipgloss.AdaptiveColor{Light: "#C27400", Dark: "#FFB86C"},
		Danger:    lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5555"},
		Info:      lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#8BE9FD"},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

// PanelStyle is the default style for unfocused panels
func (t Theme) PanelStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
}

// FocusedPanelStyle is the style for focused panels
func (t Theme) FocusedPanelStyle() lipgloss.Style {
	return t.PanelStyle().BorderForeground(t.Primary)
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING - Polished, consistent badge styles
// ══════════════════════════════════════════════════════════════════════════════

// RenderBadge styles an already formatted badge label.
func (t Theme) RenderBadge(label string) string {
	if label == "" {
		return ""
	}
	c, ok := badgeColors[label]
	if !ok {
		h := fnv.New32a()
		_, _ = h.Write([]byte(label))
		c = badgePalette[h.Sum32()%uint32(len(badgePalette))]
	}
	return t.Renderer.NewStyle().
		Foreground(c.fg).
		Background(c.bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// RenderBreakpointBadge shows the active breakpoint in the header.
func (t Theme) RenderBreakpointBadge(bp viewport.Breakpoint) string {
	var fg, bg lipgloss.Color
	switch bp {
	case viewport.Mobile:
		fg, bg = ColorPink, lipgloss.Color("#3D1A2E")
	case viewport.Tablet:
		fg, bg = ColorInfo, lipgloss.Color("#1A3344")
	default:
		fg, bg = ColorSuccess, lipgloss.Color("#1A3D2A")
	}
	return t.Renderer.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(bp.String()))
}

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION - Mini-bars
// ══════════════════════════════════════════════════════════════════════════════

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func (t Theme) RenderMiniBar(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	switch {
	case value >= 0.75:
		barColor = t.Success
	case value >= 0.5:
		barColor = t.Warning
	case value >= 0.25:
		barColor = t.Info
	default:
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func (t Theme) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
