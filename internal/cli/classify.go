package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/responsive"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// NewClassifyCommand creates the command that prints the responsive state
// for a screen size.
func NewClassifyCommand() *cobra.Command {
	var (
		width, height int
		cols, rows    int
		touch         bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the breakpoint and UI state for a screen size",
		Long: `Classify a screen size against the configured breakpoints and print the
resulting responsive state as YAML.

The size is given in pixels (--width/--height) or in terminal cells
(--cols/--rows). With neither, the current terminal is classified.

Examples:
  rv classify --width 375 --height 812 --touch
  rv classify --cols 120 --rows 40
  rv classify --desktop-breakpoint 1440 --width 1300 --height 900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			var env viewport.Environment
			switch {
			case width > 0 || height > 0:
				if width <= 0 || height <= 0 {
					return fmt.Errorf("--width and --height must both be positive")
				}
				env = viewport.NewWindow(width, height, touchOption(touch), viewport.WithCellMetrics(cfg.Cells))
			case cols > 0 || rows > 0:
				if cols <= 0 || rows <= 0 {
					return fmt.Errorf("--cols and --rows must both be positive")
				}
				w, h := cfg.Cells.ToPixels(cols, rows)
				env = viewport.NewWindow(w, h, touchOption(touch), viewport.WithCellMetrics(cfg.Cells))
			default:
				env = viewport.NewTerminalEnv(cfg.Cells)
			}

			store := responsive.New(env, append(cfg.StoreOptions(), responsive.WithLogger(logger))...)
			out, err := yaml.Marshal(store.Snapshot())
			if err != nil {
				return fmt.Errorf("failed to encode state: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "viewport height in pixels")
	cmd.Flags().IntVar(&cols, "cols", 0, "viewport width in terminal cells")
	cmd.Flags().IntVar(&rows, "rows", 0, "viewport height in terminal cells")
	cmd.Flags().BoolVar(&touch, "touch", false, "report a touch-capable device")

	return cmd
}

func touchOption(touch bool) viewport.WindowOption {
	var s viewport.TouchSignals
	if touch {
		s.MaxTouchPoints = 1
	}
	return viewport.WithTouchSignals(s)
}
