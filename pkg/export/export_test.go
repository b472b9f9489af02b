package export

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/internal/testutil"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

func intp(n int) *int { return &n }

func records() model.Records {
	return model.Records{
		{"id": "ord-1", "customer": "Ada", "total": 12.5, "status": "open"},
		{"id": "ord-2", "customer": "Grace", "total": 40.0, "status": "closed"},
		{"id": "ord-3", "customer": "Linus", "total": -3, "status": "blocked"},
	}
}

func manifest() *model.Manifest {
	return &model.Manifest{
		Title: "Orders",
		Columns: []model.Column{
			{Key: "id", MobileHidden: true},
			{Key: "status", Format: model.FormatBadge},
			{Key: "total", Format: model.FormatCurrency, Align: model.AlignRight, MobileOrder: intp(2)},
			{Key: "customer", MobileOrder: intp(1)},
		},
		EmptyMessage: "Nothing ordered",
	}
}

var mobile = viewport.State{Width: 400, Height: 800, Breakpoint: viewport.Mobile, Orientation: viewport.Portrait}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatText, "md": FormatMarkdown, "CSV": FormatCSV, " html ": FormatHTML, "svg": FormatSVG}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteTable_Desktop(t *testing.T) {
	for _, format := range []Format{FormatText, FormatMarkdown, FormatCSV, FormatHTML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTable(&buf, records(), format, Options{Manifest: manifest()}))
			out := strings.ToLower(buf.String())
			for _, want := range []string{"id", "customer", "ord-2", "$40.00", "-$3.00", "blocked"} {
				assert.Contains(t, out, want)
			}
			assert.Less(t, strings.Index(out, "status"), strings.Index(out, "customer"), "declaration order")
		})
	}
}

func TestWriteTable_MobileHidesAndReorders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records(), FormatCSV, Options{Manifest: manifest(), Viewport: mobile}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "customer,total,status", strings.ToLower(lines[0]))
	assert.NotContains(t, buf.String(), "ord-1")
}

func TestWriteTable_ModeOverride(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records(), FormatCSV, Options{Manifest: manifest(), Mode: model.ModeList}))
	assert.NotContains(t, buf.String(), "ord-1", "stacked modes hide columns at any size")
}

func TestWriteTable_EmptyAndInferred(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, model.Records{}, FormatText, Options{Manifest: manifest()}))
	assert.Contains(t, buf.String(), "Nothing ordered")

	buf.Reset()
	require.NoError(t, WriteTable(&buf, model.Records{{"b": 2, "a": 1}}, FormatCSV, Options{}))
	assert.Equal(t, "a,b", strings.ToLower(strings.Split(buf.String(), "\n")[0]))

	assert.ErrorIs(t, WriteTable(io.Discard, records(), FormatSVG, Options{}), ErrUnsupportedFormat)
	assert.ErrorIs(t, WriteTable(io.Discard, records(), Format("pdf"), Options{}), ErrUnsupportedFormat)
}

func chartManifest(kind model.ChartKind) *model.Manifest {
	m := manifest()
	m.Chart = &model.ChartSpec{Kind: kind, LabelKey: "customer", ValueKey: "total", Title: "Revenue"}
	return m
}

func TestWriteChartSVG_Bars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChartSVG(&buf, records(), Options{Manifest: chartManifest(model.ChartBar)}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "Grace")
	// Negative values get a track but no bar.
	assert.Equal(t, 2, strings.Count(out, "fill:#bd93f9"))
	assert.Equal(t, 3, strings.Count(out, "fill:#eeeeee"))
}

func TestWriteChartSVG_Sparkline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChartSVG(&buf, records(), Options{Manifest: chartManifest(model.ChartSparkline), Viewport: mobile}))
	assert.Contains(t, buf.String(), "<polyline")
	assert.Contains(t, buf.String(), `width="400"`)
}

func TestWriteChartSVG_Unavailable(t *testing.T) {
	assert.ErrorIs(t, WriteChartSVG(io.Discard, records(), Options{Manifest: manifest()}), ErrChartUnavailable)
	assert.ErrorIs(t, WriteChartSVG(io.Discard, records(), Options{}), ErrChartUnavailable)

	m := chartManifest(model.ChartBar)
	m.Chart.ValueKey = "customer"
	assert.ErrorIs(t, WriteChartSVG(io.Discard, records(), Options{Manifest: m}), ErrChartUnavailable)
}

func TestChartWidth(t *testing.T) {
	tests := []struct {
		vp   viewport.State
		want int
	}{
		{viewport.State{Width: 400, Breakpoint: viewport.Mobile}, 400},
		{viewport.State{Width: 120, Breakpoint: viewport.Mobile}, chartMinW},
		{viewport.State{Width: 900, Breakpoint: viewport.Tablet}, 600},
		{viewport.State{Width: 2400, Breakpoint: viewport.Desktop}, chartMaxW},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chartWidth(tt.vp))
	}
}

func newPreview(t *testing.T, m *model.Manifest) *httptest.Server {
	t.Helper()
	p := NewPreviewServer(PreviewConfig{
		Source:     loader.StaticSource{Label: "orders", Records: loader.Result{Records: records()}},
		Manifest:   m,
		Responsive: viewport.DefaultConfig(),
		Logger:     testutil.NewTestLogger(t),
	})
	srv := httptest.NewServer(p.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPreviewServer_TableFollowsRequestedWidth(t *testing.T) {
	srv := newPreview(t, manifest())

	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "desktop", resp.Header.Get("X-Breakpoint"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
	assert.Contains(t, body, "<table")
	assert.Contains(t, body, "ord-1")

	resp, body = get(t, srv.URL+"/?width=400&height=800")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mobile", resp.Header.Get("X-Breakpoint"))
	assert.NotContains(t, body, "ord-1")

	resp, _ = get(t, srv.URL+"/?width=900")
	assert.Equal(t, "tablet", resp.Header.Get("X-Breakpoint"))
}

func TestPreviewServer_BadRequests(t *testing.T) {
	srv := newPreview(t, manifest())

	for _, q := range []string{"?width=abc", "?width=-5", "?height=0", "?mode=carousel"} {
		resp, _ := get(t, srv.URL+"/"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}

	resp, _ := get(t, srv.URL+"/chart.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreviewServer_ChartAndStatus(t *testing.T) {
	srv := newPreview(t, chartManifest(model.ChartBar))

	resp, body := get(t, srv.URL+"/chart.svg?width=400")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")

	resp, body = get(t, srv.URL+"/__preview__/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, "orders", status["source"])
}

func TestNewPreviewServer(t *testing.T) {
	p := NewPreviewServer(PreviewConfig{Port: 9002})
	assert.Equal(t, 9002, p.Port())
	assert.Equal(t, "http://localhost:9002", p.URL())
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 19000)
	assert.LessOrEqual(t, port, 19100)
}
