package layout

import (
	"strconv"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// ChartPoint is one labelled value of a chart.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartPoints extracts the points named by spec. Records without a
// numeric value are skipped; a missing label falls back to the position.
func ChartPoints(rs model.Records, spec *model.ChartSpec) []ChartPoint {
	if !spec.Usable() {
		return nil
	}
	points := make([]ChartPoint, 0, len(rs))
	for i, r := range rs {
		v, ok := r.Float(spec.ValueKey)
		if !ok {
			continue
		}
		label := r.String(spec.LabelKey)
		if spec.LabelKey == "" || label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		points = append(points, ChartPoint{Label: label, Value: v})
	}
	return points
}

// ChartValues returns the values of points in order.
func ChartValues(points []ChartPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Value
	}
	return vals
}
