package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"gonum.org/v1/gonum/floats"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

func (v DataView) renderChart() string {
	t := v.Theme
	spec := v.manifest().Chart
	points := layout.ChartPoints(v.page(1, 2), spec)
	if len(points) == 0 {
		return v.renderNotAvailable("chart data")
	}

	title := spec.Title
	if title == "" {
		title = model.Column{Key: spec.ValueKey}.Title()
	}
	header := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(title)

	var body string
	if spec.Kind == model.ChartSparkline {
		body = v.renderSparkline(points)
	} else {
		body = v.renderBars(points)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderBars draws a horizontal bar per point scaled to the largest value.
// Negative values draw as empty bars.
func (v DataView) renderBars(points []layout.ChartPoint) string {
	t := v.Theme
	vals := layout.ChartValues(points)
	peak := floats.Max(vals)

	labelWidth := 0
	valueWidth := 0
	texts := make([]string, len(points))
	for i, p := range points {
		if w := ansi.StringWidth(p.Label); w > labelWidth {
			labelWidth = w
		}
		texts[i] = strconv.FormatFloat(p.Value, 'f', -1, 64)
		if w := len(texts[i]); w > valueWidth {
			valueWidth = w
		}
	}
	if limit := v.width() / 3; labelWidth > limit {
		labelWidth = limit
	}
	barWidth := v.width() - labelWidth - valueWidth - 2
	if barWidth < 1 {
		barWidth = 1
	}

	labelStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	lines := make([]string, len(points))
	for i, p := range points {
		ratio := 0.0
		if peak > 0 {
			ratio = p.Value / peak
		}
		label := pad(layout.Truncate(p.Label, labelWidth), labelWidth, model.AlignLeft)
		lines[i] = labelStyle.Render(label) + " " + t.RenderMiniBar(ratio, barWidth) + " " +
			pad(texts[i], valueWidth, model.AlignRight)
	}
	return strings.Join(lines, "\n")
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps vals onto eight block heights. When there are more values
// than width, only the most recent width values are drawn.
func Sparkline(vals []float64, width int) string {
	if len(vals) == 0 || width <= 0 {
		return ""
	}
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	span := hi - lo
	out := make([]rune, len(vals))
	for i, x := range vals {
		level := len(sparkLevels) - 1
		if span > 0 {
			level = int((x - lo) / span * float64(len(sparkLevels)-1))
		}
		out[i] = sparkLevels[level]
	}
	return string(out)
}

func (v DataView) renderSparkline(points []layout.ChartPoint) string {
	t := v.Theme
	vals := layout.ChartValues(points)
	line := t.Renderer.NewStyle().Foreground(t.Info).Render(Sparkline(vals, v.width()))
	summary := t.Renderer.NewStyle().Foreground(t.Subtext).Render(
		"min " + strconv.FormatFloat(floats.Min(vals), 'f', -1, 64) +
			"  max " + strconv.FormatFloat(floats.Max(vals), 'f', -1, 64) +
			"  total " + strconv.FormatFloat(floats.Sum(vals), 'f', -1, 64))
	return lipgloss.JoinVertical(lipgloss.Left, line, summary)
}
