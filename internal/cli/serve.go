package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/export"
)

// NewServeCommand creates the HTML preview server command.
func NewServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a live HTML preview of the records",
		Long: `Serve the records as an HTML table that follows the requested screen size.

The file is re-read on every request. Pass ?width= and ?height= (pixels)
and optionally ?mode= to see the columns a viewer of that size gets; the
X-Breakpoint response header names the breakpoint used.

Routes:
  /                     HTML table
  /chart.svg            chart image (needs a chart in the manifest)
  /__preview__/status   server status as JSON

Examples:
  rv serve orders.jsonl
  rv serve orders.jsonl --port 9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			src, err := openSource(args[0], cfg.Data, logger)
			if err != nil {
				return err
			}
			manifest, err := loadManifest(cfg.Data)
			if err != nil {
				return err
			}

			srv := export.NewPreviewServer(export.PreviewConfig{
				Source:     src,
				Manifest:   manifest,
				Responsive: cfg.Responsive,
				Port:       port,
				Logger:     logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s (Ctrl+C to stop)\n", args[0])
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, fmt.Sprintf("port to listen on (default: first free port from %d)", export.DefaultPreviewPort))

	return cmd
}
