package cli

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/config"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/responsive"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/ui"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/watcher"
)

// NewViewCommand creates the interactive explorer command.
func NewViewCommand() *cobra.Command {
	var mode string
	var watch bool

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Explore records in a layout that follows the terminal size",
		Long: `Open the interactive explorer on a JSONL, JSON or SQLite file.

The layout is picked from the terminal width: cards on narrow terminals,
a table on wide ones. Press ? inside the explorer for key bindings.

Examples:
  rv view orders.jsonl
  rv view --manifest orders.yaml orders.jsonl
  rv view --mode grid --watch data.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			src, err := openSource(args[0], cfg.Data, logger)
			if err != nil {
				return err
			}
			manifest, err := loadManifest(cfg.Data)
			if err != nil {
				return err
			}

			win := terminalWindow(cfg)
			store := responsive.New(win, append(cfg.StoreOptions(), responsive.WithLogger(logger))...)
			if err := store.Mount(win); err != nil {
				return err
			}
			defer store.Unmount()

			ctx = responsive.WithStore(ctx, store)
			return runExplorer(ctx, win, src, manifest, explorerOptions{
				mode:   m,
				watch:  watch,
				logger: logger,
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "force a layout mode (table, cards, list, grid, chart, auto)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the file changes")

	return cmd
}

type explorerOptions struct {
	mode   model.Mode
	watch  bool
	logger *slog.Logger
}

// terminalWindow sizes a window from the controlling terminal. Without a
// terminal the window starts at the fallback viewport until the first
// resize arrives.
func terminalWindow(cfg *config.Config) *viewport.Window {
	env := viewport.NewTerminalEnv(cfg.Cells)
	w, h, ok := env.Size()
	if !ok {
		fb := viewport.FallbackState()
		w, h = fb.Width, fb.Height
	}
	return viewport.NewWindow(w, h,
		viewport.WithTouchSignals(env.TouchSignals()),
		viewport.WithCellMetrics(cfg.Cells),
	)
}

// runExplorer runs the explorer against the store scoped to ctx. The file
// watcher, if any, stops when the program exits.
func runExplorer(ctx context.Context, win *viewport.Window, src loader.FileSource, manifest *model.Manifest, opts explorerOptions) error {
	store, err := responsive.Lookup(ctx)
	if err != nil {
		return err
	}
	bridge := responsive.NewBridge(store, win)
	defer bridge.Close()

	app := ui.NewApp(bridge, src, manifest, ui.WithAppLogger(opts.logger), ui.WithMode(opts.mode))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	if opts.watch {
		fw, err := watcher.NewFileWatcher(src.Path, func() { p.Send(ui.ReloadMsg{}) },
			watcher.WithLogger(opts.logger),
			watcher.WithErrorHandler(func(err error) {
				opts.logger.Warn("file watcher error", "path", src.Path, "error", err)
			}),
		)
		if err != nil {
			return err
		}
		if err := fw.Start(gctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", src.Path, err)
		}
		g.Go(func() error {
			<-gctx.Done()
			fw.Stop()
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("explorer: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// parseMode validates a --mode flag value. The empty string means follow
// the screen size.
func parseMode(s string) (model.Mode, error) {
	m := model.Mode(s)
	if s != "" && !m.IsValid() {
		return "", fmt.Errorf("unknown layout mode %q", s)
	}
	return m, nil
}
