// Package export writes datasets to files and other programs: text,
// markdown, CSV and HTML tables, SVG charts, and a live HTML preview.
//
// Every exporter decides columns with the same layout policy as the
// terminal explorer, so a mobile export drops and reorders columns exactly
// as the card view does.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatSVG      Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatHTML, FormatSVG}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "html", "htm":
		return FormatHTML, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options controls how a dataset is laid out for export.
type Options struct {
	Manifest *model.Manifest
	// Viewport decides the breakpoint the columns are chosen for. The zero
	// value uses the fallback viewport.
	Viewport viewport.State
	// Mode forces a layout mode, as the explorer's override does.
	Mode model.Mode
}

func (o Options) viewport() viewport.State {
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		return viewport.FallbackState()
	}
	return o.Viewport
}

// Decision evaluates the layout policy for rs. Width is measured in cells
// of the default metrics so grid counts match the terminal.
func (o Options) Decision(rs model.Records) (layout.Decision, *model.Manifest) {
	m := o.Manifest.WithInferredColumns(rs)
	vp := o.viewport()
	cols, _ := viewport.DefaultCellMetrics.ToCells(vp.Width, vp.Height)
	in := layout.InputFor(m, vp.Breakpoint, cols)
	in.Override = o.Mode
	return layout.Decide(in), m
}

// WriteTable writes rs as a table in format. Columns follow the layout
// decision; cells use the same formatting as the explorer.
func WriteTable(w io.Writer, rs model.Records, format Format, opts Options) error {
	if format == FormatSVG {
		return fmt.Errorf("%w: svg is a chart format", ErrUnsupportedFormat)
	}
	d, m := opts.Decision(rs)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if m != nil && m.Title != "" && format != FormatCSV {
		t.SetTitle(m.Title)
	}

	header := make(table.Row, len(d.Columns))
	configs := make([]table.ColumnConfig, 0, len(d.Columns))
	for i, c := range d.Columns {
		header[i] = c.Title()
		cfg := table.ColumnConfig{Number: i + 1, Align: textAlign(c.Align)}
		if c.Width > 0 {
			cfg.WidthMax = c.Width
		}
		configs = append(configs, cfg)
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, rec := range rs {
		row := make(table.Row, len(d.Columns))
		for i, c := range d.Columns {
			row[i] = layout.CellText(c, rec)
		}
		t.AppendRow(row)
	}

	switch format {
	case FormatMarkdown:
		t.RenderMarkdown()
	case FormatCSV:
		t.RenderCSV()
	case FormatHTML:
		t.RenderHTML()
	case FormatText:
		t.Render()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(rs) == 0 && format != FormatCSV {
		_, _ = fmt.Fprintln(w, m.Empty())
	}
	return nil
}

func textAlign(a model.Align) text.Align {
	switch a {
	case model.AlignRight:
		return text.AlignRight
	case model.AlignCenter:
		return text.AlignCenter
	default:
		return text.AlignLeft
	}
}
