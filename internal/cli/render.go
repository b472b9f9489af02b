package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/config"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/export"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/ui"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// formatView prints the same frame the explorer would draw.
const formatView = "view"

// NewRenderCommand creates the one-shot render command.
func NewRenderCommand() *cobra.Command {
	var (
		format string
		mode   string
		output string
		cols   int
		rows   int
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render records once for a given screen size",
		Long: `Render records without the interactive explorer.

The screen size is given in cells and classified the same way the explorer
classifies the terminal, so the columns, their order and the layout mode
match what a user of that size would see. Without --width and --height the
current terminal is used, or the 1024x768 fallback viewport when there is
no terminal.

Formats:
  view      the explorer frame (default)
  text      box-drawn table
  markdown  GitHub-flavoured table
  csv       comma-separated values
  html      HTML table
  svg       chart image (needs a chart in the manifest)

Examples:
  rv render orders.jsonl --width 60
  rv render orders.jsonl --format csv -o orders.csv
  rv render orders.jsonl --manifest orders.yaml --format svg -o chart.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			if format != formatView {
				if _, err := export.ParseFormat(format); err != nil {
					return err
				}
			}
			src, err := openSource(args[0], cfg.Data, logger)
			if err != nil {
				return err
			}
			manifest, err := loadManifest(cfg.Data)
			if err != nil {
				return err
			}

			res, err := src.Load(ctx)
			if err != nil {
				return err
			}
			if res.Skipped > 0 {
				logger.Warn("skipped malformed records", "count", res.Skipped, "path", src.Path)
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			req := renderRequest{
				Records:  res.Records,
				Manifest: manifest,
				Format:   format,
				Mode:     m,
				Cols:     cols,
				Rows:     rows,
			}
			if err := renderRecords(out, cfg, req); err != nil {
				return err
			}
			if output != "" {
				logger.Info("wrote output", "path", output, "format", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatView, "output format (view, text, markdown, csv, html, svg)")
	cmd.Flags().StringVar(&mode, "mode", "", "force a layout mode (table, cards, list, grid, chart, auto)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&cols, "width", 0, "screen width in cells")
	cmd.Flags().IntVar(&rows, "height", 0, "screen height in cells")

	return cmd
}

type renderRequest struct {
	Records  model.Records
	Manifest *model.Manifest
	Format   string
	Mode     model.Mode
	// Cols and Rows are the screen size in cells; zero means unknown.
	Cols int
	Rows int
}

// screen returns the viewport of the request and its size in cells.
func (r renderRequest) screen(cfg *config.Config) (viewport.State, int, int) {
	cols, rows := r.Cols, r.Rows
	if cols <= 0 && rows <= 0 {
		if w, h, ok := viewport.NewTerminalEnv(cfg.Cells).Size(); ok {
			cols, rows = cfg.Cells.ToCells(w, h)
		}
	}
	fb := viewport.FallbackState()
	fbCols, fbRows := cfg.Cells.ToCells(fb.Width, fb.Height)
	if cols <= 0 {
		cols = fbCols
	}
	if rows <= 0 {
		rows = fbRows
	}
	w, h := cfg.Cells.ToPixels(cols, rows)
	win := viewport.NewWindow(w, h, viewport.WithCellMetrics(cfg.Cells))
	return viewport.GetViewportState(win, cfg.Responsive), cols, rows
}

// renderRecords writes one rendering of req to w.
func renderRecords(w io.Writer, cfg *config.Config, req renderRequest) error {
	state, cols, _ := req.screen(cfg)

	if req.Format == formatView {
		v := ui.DataView{
			Theme:      ui.DefaultTheme(lipgloss.NewRenderer(w)),
			Manifest:   req.Manifest,
			Records:    req.Records,
			Breakpoint: state.Breakpoint,
			Width:      cols,
			Override:   req.Mode,
		}
		if req.Rows > 0 {
			v.Height = req.Rows
		}
		_, err := fmt.Fprintln(w, v.View())
		return err
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return err
	}
	opts := export.Options{Manifest: req.Manifest, Viewport: state, Mode: req.Mode}
	if format == export.FormatSVG {
		err := export.WriteChartSVG(w, req.Records, opts)
		if errors.Is(err, export.ErrChartUnavailable) {
			return fmt.Errorf("%w: add a chart section with label_key and value_key to the manifest", err)
		}
		return err
	}
	return export.WriteTable(w, req.Records, format, opts)
}
