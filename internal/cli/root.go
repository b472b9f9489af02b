// Package cli provides the rv command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	var closeLog func() error

	rootCmd := &cobra.Command{
		Use:   "rv",
		Short: "rv - responsive record viewer",
		Long: `rv shows JSONL, JSON and SQLite records in a terminal layout that adapts
to the window: tables on wide screens, cards on narrow ones, with grids
and charts on request.

The terminal size is mapped to pixels (8x16 per cell by default) and
classified against mobile/tablet/desktop breakpoints.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			res, err := config.Load(config.Options{File: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}

			logger, closer, err := newLogger(res.Config.Log, cmd.ErrOrStderr(), cmd.Name() == "view")
			if err != nil {
				return err
			}
			closeLog = closer
			if res.File != "" {
				logger.Debug("using config file", "path", res.File)
			}
			for _, w := range res.Warnings {
				logger.Warn("invalid configuration value replaced by default", "detail", w)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, &res.Config)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: rv.yaml, searched upward)")
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewViewCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewInitCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	cfg := config.Default()
	return &cfg
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// newLogger builds the logger for a command. The explorer owns the
// terminal, so without a log file its logs are discarded.
func newLogger(lc config.LogConfig, stderr io.Writer, interactive bool) (*slog.Logger, func() error, error) {
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return lc.NewLogger(f), f.Close, nil
	}
	if interactive {
		return slog.New(slog.DiscardHandler), nil, nil
	}
	return lc.NewLogger(stderr), nil, nil
}
