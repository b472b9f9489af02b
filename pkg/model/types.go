package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// Mode is how a display component lays out records.
type Mode string

const (
	ModeTable Mode = "table"
	ModeCards Mode = "cards"
	ModeList  Mode = "list"
	ModeGrid  Mode = "grid"
	ModeAuto  Mode = "auto"
	ModeChart Mode = "chart"
)

// Modes lists every mode in cycling order.
var Modes = []Mode{ModeTable, ModeCards, ModeList, ModeGrid, ModeAuto, ModeChart}

// IsValid returns true if the mode is a recognized value
func (m Mode) IsValid() bool {
	switch m {
	case ModeTable, ModeCards, ModeList, ModeGrid, ModeAuto, ModeChart:
		return true
	}
	return false
}

// IsStacked reports whether records render as self-contained label:value
// blocks.
func (m Mode) IsStacked() bool {
	return m == ModeCards || m == ModeList
}

// Next returns the mode after m in Modes, wrapping around.
func (m Mode) Next() Mode {
	for i, cur := range Modes {
		if cur == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

// Format names a built-in cell formatter.
type Format string

const (
	FormatNone     Format = ""
	FormatBadge    Format = "badge"
	FormatDate     Format = "date"
	FormatCurrency Format = "currency"
	FormatPercent  Format = "percent"
	FormatBool     Format = "bool"
	FormatLink     Format = "link"
	FormatCount    Format = "count"
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is a recognized value
func (f Format) IsValid() bool {
	switch f {
	case FormatNone, FormatBadge, FormatDate, FormatCurrency, FormatPercent, FormatBool, FormatLink, FormatCount, FormatMarkdown:
		return true
	}
	return false
}

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// IsValid returns true if the alignment is empty or a recognized value
func (a Align) IsValid() bool {
	switch a {
	case "", AlignLeft, AlignRight, AlignCenter:
		return true
	}
	return false
}

// Column describes one field of the manifest and how to show it.
type Column struct {
	Key          string `json:"key" yaml:"key"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	MobileHidden bool   `json:"mobile_hidden,omitempty" yaml:"mobile_hidden,omitempty"`
	// MobileOrder ranks the column in stacked layouts; lower comes first and
	// unset columns go last.
	MobileOrder *int   `json:"mobile_order,omitempty" yaml:"mobile_order,omitempty"`
	Format      Format `json:"format,omitempty" yaml:"format,omitempty"`
	Width       int    `json:"width,omitempty" yaml:"width,omitempty"`
	Align       Align  `json:"align,omitempty" yaml:"align,omitempty"`

	// Render computes the cell text. It takes precedence over Format and
	// the plain field lookup.
	Render func(Record) string `json:"-" yaml:"-"`
}

// Title returns the header text for the column.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	key := c.Key
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[n:]
	}
	return strings.Join(words, " ")
}

// InferColumns builds a plain manifest from the keys present in rs.
func InferColumns(rs Records) []Column {
	keys := rs.Keys()
	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Key: k}
	}
	return cols
}

// Preferences holds the caller's layout mode per breakpoint. Empty entries
// use the policy defaults.
type Preferences struct {
	Mobile  Mode `json:"mobile,omitempty" yaml:"mobile,omitempty" koanf:"mobile"`
	Tablet  Mode `json:"tablet,omitempty" yaml:"tablet,omitempty" koanf:"tablet"`
	Desktop Mode `json:"desktop,omitempty" yaml:"desktop,omitempty" koanf:"desktop"`
}

// PerBreakpoint is an integer setting per breakpoint. Zero means unset.
type PerBreakpoint struct {
	Mobile  int `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	Tablet  int `json:"tablet,omitempty" yaml:"tablet,omitempty"`
	Desktop int `json:"desktop,omitempty" yaml:"desktop,omitempty"`
}

// For returns the value for bp.
func (p PerBreakpoint) For(bp viewport.Breakpoint) int {
	switch bp {
	case viewport.Mobile:
		return p.Mobile
	case viewport.Tablet:
		return p.Tablet
	default:
		return p.Desktop
	}
}

// Grid defaults, in terminal cells.
const (
	DefaultMinItemWidth = 28
	DefaultGridGap      = 2
	DefaultMaxColumns   = 6
)

// GridSpec sizes grid tiles. Widths are in the same unit as the available
// width handed to the layout policy (cells in the terminal renderers).
type GridSpec struct {
	MinItemWidth int           `json:"min_item_width,omitempty" yaml:"min_item_width,omitempty"`
	Gap          int           `json:"gap,omitempty" yaml:"gap,omitempty"`
	Columns      PerBreakpoint `json:"columns,omitempty" yaml:"columns,omitempty"`
	MaxColumns   int           `json:"max_columns,omitempty" yaml:"max_columns,omitempty"`
}

// Normalized fills unset sizes with defaults.
func (g GridSpec) Normalized() GridSpec {
	if g.MinItemWidth <= 0 {
		g.MinItemWidth = DefaultMinItemWidth
	}
	if g.Gap < 0 {
		g.Gap = 0
	}
	if g.MaxColumns <= 0 {
		g.MaxColumns = DefaultMaxColumns
	}
	return g
}

// ChartKind selects the chart renderer.
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartSparkline ChartKind = "sparkline"
)

// IsValid returns true if the chart kind is empty or a recognized value
func (k ChartKind) IsValid() bool {
	switch k {
	case "", ChartBar, ChartSparkline:
		return true
	}
	return false
}

// ChartSpec configures chart mode. A nil *ChartSpec means chart mode is
// not available for the dataset.
type ChartSpec struct {
	Kind     ChartKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	LabelKey string    `json:"label_key" yaml:"label_key"`
	ValueKey string    `json:"value_key" yaml:"value_key"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
}

// Usable reports whether the spec names the fields a chart needs.
func (c *ChartSpec) Usable() bool {
	return c != nil && c.ValueKey != ""
}
