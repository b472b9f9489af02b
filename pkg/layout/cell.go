package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// Missing is the text of a cell whose field is absent.
const Missing = "—"

// Formatter turns a present field value into cell text.
type Formatter func(v any) string

// Formatters are the built-in formatters, keyed by the name used in
// manifests.
var Formatters = map[model.Format]Formatter{
	model.FormatBadge:    formatBadge,
	model.FormatDate:     formatDate,
	model.FormatCurrency: formatCurrency,
	model.FormatPercent:  formatPercent,
	model.FormatBool:     formatBool,
	model.FormatLink:     formatLink,
	model.FormatCount:    formatCount,
	model.FormatMarkdown: formatMarkdown,
}

// CellText returns the text for col in rec. A render function wins over
// the column format, which wins over the plain field value.
func CellText(col model.Column, rec model.Record) string {
	if col.Render != nil {
		return col.Render(rec)
	}
	v, ok := rec.Field(col.Key)
	if !ok {
		return Missing
	}
	if f, ok := Formatters[col.Format]; ok {
		return f(v)
	}
	s := model.Stringify(v)
	if s == "" {
		return Missing
	}
	return s
}

// formatMarkdown fits markdown into one cell line. The record detail
// renders it in full.
func formatMarkdown(v any) string {
	return strings.Join(strings.Fields(model.Stringify(v)), " ")
}

func formatBadge(v any) string {
	return strings.ToUpper(strings.ReplaceAll(model.Stringify(v), "_", " "))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func formatDate(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format("2006-01-02")
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC().Format("2006-01-02")
			}
		}
		return x
	}
	if f, ok := model.ToFloat(v); ok {
		return time.Unix(int64(f), 0).UTC().Format("2006-01-02")
	}
	return model.Stringify(v)
}

func formatCurrency(v any) string {
	f, ok := model.ToFloat(v)
	if !ok {
		return model.Stringify(v)
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	cents := int64(math.Round(f * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

// formatPercent treats the value as a ratio: 0.25 is 25%.
func formatPercent(v any) string {
	f, ok := model.ToFloat(v)
	if !ok {
		return model.Stringify(v)
	}
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}

func formatBool(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return formatBool(b)
		}
		return x
	}
	if f, ok := model.ToFloat(v); ok {
		return formatBool(f != 0)
	}
	return model.Stringify(v)
}

// formatLink shows a URL without its scheme. Renderers that support it
// wrap the cell in a terminal hyperlink.
func formatLink(v any) string {
	s := model.Stringify(v)
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(s, p) {
			return strings.TrimSuffix(s[len(p):], "/")
		}
	}
	return s
}

// formatCount shows numbers with thousands separators and collections by
// their length.
func formatCount(v any) string {
	switch x := v.(type) {
	case []any:
		return humanize.Comma(int64(len(x)))
	case map[string]any:
		return humanize.Comma(int64(len(x)))
	}
	if f, ok := model.ToFloat(v); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return model.Stringify(v)
}

// Truncate shortens s to at most width display cells, marking the cut
// with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// ViewState is what a display component shows for its data.
type ViewState int

const (
	Ready ViewState = iota
	Loading
	Empty
)

// String returns the state name.
func (s ViewState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	default:
		return "ready"
	}
}

// State classifies a render pass. Loading wins over empty.
func State(loading bool, n int) ViewState {
	switch {
	case loading:
		return Loading
	case n == 0:
		return Empty
	default:
		return Ready
	}
}
