package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/floats"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// ErrChartUnavailable is returned when the manifest has no usable chart.
var ErrChartUnavailable = errors.New("chart not available")

// Chart geometry in pixels.
const (
	chartMargin  = 16
	chartTitleH  = 28
	chartBarH    = 22
	chartBarGap  = 6
	chartSparkH  = 120
	chartMinW    = 240
	chartMaxW    = 960
	chartFont    = "font-family:sans-serif;font-size:12px"
	chartTitleSt = "font-family:sans-serif;font-size:16px;font-weight:bold"
)

// chartWidth scales the drawing to the viewport: phones get the full
// width, larger screens a bounded one.
func chartWidth(vp viewport.State) int {
	w := vp.Width
	if vp.Breakpoint != viewport.Mobile {
		w = w * 2 / 3
	}
	switch {
	case w < chartMinW:
		return chartMinW
	case w > chartMaxW:
		return chartMaxW
	}
	return w
}

// WriteChartSVG draws the manifest's chart for rs as an SVG document.
func WriteChartSVG(w io.Writer, rs model.Records, opts Options) error {
	_, m := opts.Decision(rs)
	if !m.HasChart() {
		return ErrChartUnavailable
	}
	points := layout.ChartPoints(rs, m.Chart)
	if len(points) == 0 {
		return fmt.Errorf("%w: no numeric %q values", ErrChartUnavailable, m.Chart.ValueKey)
	}

	title := m.Chart.Title
	if title == "" {
		title = model.Column{Key: m.Chart.ValueKey}.Title()
	}
	width := chartWidth(opts.viewport())

	canvas := svg.New(w)
	if m.Chart.Kind == model.ChartSparkline {
		height := chartMargin*2 + chartTitleH + chartSparkH
		canvas.Start(width, height)
		canvas.Title(title)
		canvas.Rect(0, 0, width, height, "fill:white")
		canvas.Text(chartMargin, chartMargin+16, title, chartTitleSt)
		drawSparkline(canvas, points, chartMargin, chartMargin+chartTitleH, width-2*chartMargin, chartSparkH)
	} else {
		height := chartMargin*2 + chartTitleH + len(points)*(chartBarH+chartBarGap)
		canvas.Start(width, height)
		canvas.Title(title)
		canvas.Rect(0, 0, width, height, "fill:white")
		canvas.Text(chartMargin, chartMargin+16, title, chartTitleSt)
		drawBars(canvas, points, chartMargin, chartMargin+chartTitleH, width-2*chartMargin)
	}
	canvas.End()
	return nil
}

func drawBars(canvas *svg.SVG, points []layout.ChartPoint, x, y, width int) {
	peak := floats.Max(layout.ChartValues(points))
	labelW := width / 4
	valueW := 64
	barMax := width - labelW - valueW
	if barMax < 1 {
		barMax = 1
	}
	for i, p := range points {
		top := y + i*(chartBarH+chartBarGap)
		barW := 0
		if peak > 0 && p.Value > 0 {
			barW = int(p.Value / peak * float64(barMax))
		}
		canvas.Text(x, top+chartBarH-6, layout.Truncate(p.Label, labelW/7), chartFont)
		canvas.Rect(x+labelW, top, barMax, chartBarH, "fill:#eeeeee")
		if barW > 0 {
			canvas.Rect(x+labelW, top, barW, chartBarH, "fill:#bd93f9")
		}
		canvas.Text(x+labelW+barMax+6, top+chartBarH-6, strconv.FormatFloat(p.Value, 'f', -1, 64), chartFont)
	}
}

func drawSparkline(canvas *svg.SVG, points []layout.ChartPoint, x, y, width, height int) {
	vals := layout.ChartValues(points)
	lo, hi := floats.Min(vals), floats.Max(vals)
	span := hi - lo
	xs := make([]int, len(vals))
	ys := make([]int, len(vals))
	for i, v := range vals {
		xs[i] = x
		if len(vals) > 1 {
			xs[i] = x + i*width/(len(vals)-1)
		}
		ys[i] = y + height/2
		if span > 0 {
			ys[i] = y + height - int((v-lo)/span*float64(height))
		}
	}
	canvas.Line(x, y+height, x+width, y+height, "stroke:#cccccc")
	canvas.Polyline(xs, ys, "fill:none;stroke:#8be9fd;stroke-width:2")
}
