package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

func order(n int) *int { return &n }

func TestSelectMode(t *testing.T) {
	prefs := model.Preferences{Mobile: model.ModeList, Desktop: model.ModeGrid}

	tests := []struct {
		name  string
		bp    viewport.Breakpoint
		prefs model.Preferences
		want  model.Mode
	}{
		{"mobile preference", viewport.Mobile, prefs, model.ModeList},
		{"tablet follows desktop", viewport.Tablet, prefs, model.ModeGrid},
		{"tablet preference", viewport.Tablet, model.Preferences{Tablet: model.ModeCards}, model.ModeCards},
		{"desktop preference", viewport.Desktop, prefs, model.ModeGrid},
		{"mobile default", viewport.Mobile, model.Preferences{}, model.ModeCards},
		{"tablet default", viewport.Tablet, model.Preferences{}, model.ModeTable},
		{"desktop default", viewport.Desktop, model.Preferences{}, model.ModeTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(tt.bp, tt.prefs))
		})
	}
}

func TestAutoColumnCount(t *testing.T) {
	spec := model.GridSpec{MinItemWidth: 20, Gap: 2, MaxColumns: 5}

	tests := []struct {
		name      string
		available int
		spec      model.GridSpec
		bp        viewport.Breakpoint
		want      int
	}{
		{"exact fit with gaps", 64, spec, viewport.Desktop, 3},
		{"one short of three", 63, spec, viewport.Desktop, 2},
		{"absolute ceiling", 500, spec, viewport.Desktop, 5},
		{"declared count clamps", 500, model.GridSpec{MinItemWidth: 20, Gap: 2, Columns: model.PerBreakpoint{Tablet: 2}}, viewport.Tablet, 2},
		{"declared count for other breakpoint ignored", 100, model.GridSpec{MinItemWidth: 20, Gap: 2, Columns: model.PerBreakpoint{Mobile: 1}}, viewport.Desktop, 4},
		{"never below one", 5, spec, viewport.Mobile, 1},
		{"zero width", 0, spec, viewport.Mobile, 1},
		{"defaults", 200, model.GridSpec{}, viewport.Desktop, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoColumnCount(tt.available, tt.spec, tt.bp))
		})
	}
}

func TestVisibleColumns_StackedModeHidesAndReorders(t *testing.T) {
	cols := []model.Column{
		{Key: "a", MobileHidden: true, MobileOrder: order(2)},
		{Key: "b", MobileOrder: order(1)},
		{Key: "c"},
	}

	d := Decide(Input{
		Breakpoint: viewport.Mobile,
		Prefs:      model.Preferences{Mobile: model.ModeCards},
		Columns:    cols,
	})
	assert.Equal(t, model.ModeCards, d.Mode)
	assert.Equal(t, []string{"b", "c"}, Keys(d.Columns))
}

func TestVisibleColumns_OtherModesKeepDeclarationOrder(t *testing.T) {
	cols := []model.Column{
		{Key: "a", MobileHidden: true, MobileOrder: order(2)},
		{Key: "b", MobileOrder: order(1)},
		{Key: "c"},
	}
	for _, mode := range []model.Mode{model.ModeTable, model.ModeGrid, model.ModeChart} {
		assert.Equal(t, []string{"a", "b", "c"}, Keys(VisibleColumns(mode, cols)), mode)
	}
}

func TestVisibleColumns_StableTies(t *testing.T) {
	cols := []model.Column{
		{Key: "x"},
		{Key: "y", MobileOrder: order(3)},
		{Key: "z", MobileOrder: order(3)},
		{Key: "w", MobileOrder: order(-1)},
		{Key: "v"},
	}
	assert.Equal(t, []string{"w", "y", "z", "x", "v"}, Keys(VisibleColumns(model.ModeList, cols)))
	assert.Equal(t, "x", cols[0].Key, "input is not reordered")
}

func TestDecide(t *testing.T) {
	chart := &model.ChartSpec{LabelKey: "name", ValueKey: "total"}
	grid := model.GridSpec{MinItemWidth: 30, Gap: 2, Columns: model.PerBreakpoint{Desktop: 3}}

	t.Run("auto resolves to grid", func(t *testing.T) {
		d := Decide(Input{Breakpoint: viewport.Desktop, Width: 200, Grid: grid,
			Prefs: model.Preferences{Desktop: model.ModeAuto}})
		assert.Equal(t, model.ModeAuto, d.Requested)
		assert.Equal(t, model.ModeGrid, d.Mode)
		assert.Equal(t, 3, d.GridColumns)
	})

	t.Run("explicit grid uses declared count", func(t *testing.T) {
		d := Decide(Input{Breakpoint: viewport.Desktop, Width: 40, Grid: grid,
			Prefs: model.Preferences{Desktop: model.ModeGrid}})
		assert.Equal(t, 3, d.GridColumns)
	})

	t.Run("explicit grid without declared count fits width", func(t *testing.T) {
		d := Decide(Input{Breakpoint: viewport.Mobile, Width: 62, Grid: grid,
			Prefs: model.Preferences{Mobile: model.ModeGrid}})
		assert.Equal(t, 2, d.GridColumns)
	})

	t.Run("chart availability", func(t *testing.T) {
		with := Decide(Input{Breakpoint: viewport.Desktop, Chart: chart, Override: model.ModeChart})
		without := Decide(Input{Breakpoint: viewport.Desktop, Override: model.ModeChart})
		assert.True(t, with.ChartAvailable)
		assert.False(t, without.ChartAvailable)
		assert.Equal(t, model.ModeChart, without.Mode)
	})

	t.Run("invalid override ignored", func(t *testing.T) {
		d := Decide(Input{Breakpoint: viewport.Mobile, Override: "carousel"})
		assert.Equal(t, model.ModeCards, d.Mode)
	})

	t.Run("idempotent", func(t *testing.T) {
		in := InputFor(&model.Manifest{Grid: grid, Layout: model.Preferences{Desktop: model.ModeAuto}}, viewport.Desktop, 120)
		assert.Equal(t, Decide(in), Decide(in))
	})
}

func TestCellText(t *testing.T) {
	rec := model.Record{"status": "in_progress", "total": 1234.5, "name": "", "done": true}

	renderCalls := 0
	render := model.Column{Key: "total", Format: model.FormatCurrency, Render: func(r model.Record) string {
		renderCalls++
		return "computed"
	}}
	assert.Equal(t, "computed", CellText(render, rec), "render wins over format")
	assert.Equal(t, 1, renderCalls)

	assert.Equal(t, "$1,234.50", CellText(model.Column{Key: "total", Format: model.FormatCurrency}, rec))
	assert.Equal(t, "IN PROGRESS", CellText(model.Column{Key: "status", Format: model.FormatBadge}, rec))
	assert.Equal(t, "yes", CellText(model.Column{Key: "done", Format: model.FormatBool}, rec))
	assert.Equal(t, "1234.5", CellText(model.Column{Key: "total"}, rec))
	assert.Equal(t, Missing, CellText(model.Column{Key: "absent"}, rec))
	assert.Equal(t, Missing, CellText(model.Column{Key: "absent", Format: model.FormatDate}, rec))
	assert.Equal(t, Missing, CellText(model.Column{Key: "name"}, rec))
}

func TestFormatters(t *testing.T) {
	when := time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		format model.Format
		in     any
		want   string
	}{
		{model.FormatDate, when, "2024-03-09"},
		{model.FormatDate, "2024-03-09T15:04:00Z", "2024-03-09"},
		{model.FormatDate, "2024-03-09", "2024-03-09"},
		{model.FormatDate, float64(when.Unix()), "2024-03-09"},
		{model.FormatDate, "soon", "soon"},
		{model.FormatCurrency, -42, "-$42.00"},
		{model.FormatCurrency, 1234567.891, "$1,234,567.89"},
		{model.FormatCurrency, "n/a", "n/a"},
		{model.FormatPercent, 0.256, "25.6%"},
		{model.FormatBool, false, "no"},
		{model.FormatBool, "true", "yes"},
		{model.FormatBool, 0, "no"},
		{model.FormatLink, "https://example.com/docs/", "example.com/docs"},
		{model.FormatLink, "mailto:a@b.c", "mailto:a@b.c"},
		{model.FormatCount, 1234567, "1,234,567"},
		{model.FormatCount, []any{1, 2, 3}, "3"},
		{model.FormatCount, 999, "999"},
		{model.FormatBadge, "open", "OPEN"},
		{model.FormatMarkdown, "# Notes\n\nship  **today**\n", "# Notes ship **today**"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format)+"/"+tt.want, func(t *testing.T) {
			f, ok := Formatters[tt.format]
			require.True(t, ok)
			assert.Equal(t, tt.want, f(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本…", Truncate("日本語テキスト", 5))
}

func TestState(t *testing.T) {
	assert.Equal(t, Loading, State(true, 0), "loading wins over empty")
	assert.Equal(t, Loading, State(true, 3))
	assert.Equal(t, Empty, State(false, 0))
	assert.Equal(t, Ready, State(false, 1))
	assert.Equal(t, "empty", Empty.String())
}

func TestChartPoints(t *testing.T) {
	spec := &model.ChartSpec{LabelKey: "name", ValueKey: "v"}
	points := ChartPoints(model.Records{
		{"name": "a", "v": 1},
		{"v": "2.5"},
		{"name": "skip", "v": "n/a"},
	}, spec)
	assert.Equal(t, []ChartPoint{{Label: "a", Value: 1}, {Label: "#2", Value: 2.5}}, points)
	assert.Equal(t, []float64{1, 2.5}, ChartValues(points))
	assert.Nil(t, ChartPoints(nil, nil))
	assert.Nil(t, ChartPoints(model.Records{{"v": 1}}, &model.ChartSpec{LabelKey: "name"}))
}
