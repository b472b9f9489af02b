package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/config"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// ManifestFileName is the manifest written by rv init.
const ManifestFileName = "manifest.yaml"

// initAnswers are the choices rv init turns into files.
type initAnswers struct {
	Breakpoints [3]int // mobile, tablet, desktop
	LogLevel    string
	// DataFile, when set, is sampled to write a starter manifest.
	DataFile string
}

func defaultAnswers() initAnswers {
	b := config.Default().Responsive.Breakpoints
	return initAnswers{
		Breakpoints: [3]int{b.Mobile, b.Tablet, b.Desktop},
		LogLevel:    "info",
	}
}

// NewInitCommand creates the project setup command.
func NewInitCommand() *cobra.Command {
	var (
		dir   string
		yes   bool
		force bool
		data  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an rv.yaml (and a starter manifest)",
		Long: `Create an rv.yaml in the target directory.

Without --yes an interactive form asks for the breakpoints, the log level
and an optional data file. When a data file is given, its columns are
inferred and written to manifest.yaml for you to edit.

Examples:
  rv init
  rv init --yes --data orders.jsonl
  rv init --dir ./project --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := GetLogger(cmd.Context())

			ans := defaultAnswers()
			ans.DataFile = data
			if !yes {
				var err error
				ans, err = askInit(ans)
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err != nil {
					return err
				}
			}

			written, err := writeInitFiles(cmd, dir, ans, force)
			if err != nil {
				return err
			}
			for _, p := range written {
				logger.Debug("wrote file", "path", p)
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write to")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the defaults without asking")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&data, "data", "", "data file to infer manifest columns from")

	return cmd
}

// askInit runs the interactive form, starting from ans.
func askInit(ans initAnswers) (initAnswers, error) {
	mobile := strconv.Itoa(ans.Breakpoints[0])
	tablet := strconv.Itoa(ans.Breakpoints[1])
	desktop := strconv.Itoa(ans.Breakpoints[2])
	level := ans.LogLevel
	data := ans.DataFile

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mobile breakpoint (px)").
				Description("Widths below this are mobile.").
				Value(&mobile).
				Validate(validatePixels),
			huh.NewInput().
				Title("Tablet breakpoint (px)").
				Value(&tablet).
				Validate(validatePixels),
			huh.NewInput().
				Title("Desktop breakpoint (px)").
				Description("Widths from this up are desktop.").
				Value(&desktop).
				Validate(validatePixels),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&level),
			huh.NewInput().
				Title("Data file (optional)").
				Description("Its columns seed manifest.yaml.").
				Value(&data),
		),
	)
	if err := form.Run(); err != nil {
		return ans, err
	}

	ans.LogLevel = level
	ans.DataFile = strings.TrimSpace(data)
	for i, s := range []string{mobile, tablet, desktop} {
		ans.Breakpoints[i], _ = strconv.Atoi(strings.TrimSpace(s))
	}
	return ans, nil
}

func validatePixels(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of pixels")
	}
	return nil
}

type initFile struct {
	path string
	data []byte
}

// writeInitFiles writes rv.yaml, and manifest.yaml when a data file is
// given, into dir. It returns the paths written.
func writeInitFiles(cmd *cobra.Command, dir string, ans initAnswers, force bool) ([]string, error) {
	cfg := config.Default()
	cfg.Responsive.Breakpoints.Mobile = ans.Breakpoints[0]
	cfg.Responsive.Breakpoints.Tablet = ans.Breakpoints[1]
	cfg.Responsive.Breakpoints.Desktop = ans.Breakpoints[2]
	if err := cfg.Responsive.Validate(); err != nil {
		return nil, err
	}
	if _, err := config.ParseLevel(ans.LogLevel); err != nil {
		return nil, err
	}
	cfg.Log.Level = ans.LogLevel

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var manifest []byte
	manifestPath := filepath.Join(dir, ManifestFileName)
	if ans.DataFile != "" {
		res, err := loader.LoadFile(cmd.Context(), ans.DataFile, loader.FormatAuto, loader.LoadOptions{Logger: GetLogger(cmd.Context())})
		if err != nil {
			return nil, err
		}
		m := &model.Manifest{
			Title:   strings.TrimSuffix(filepath.Base(ans.DataFile), filepath.Ext(ans.DataFile)),
			Columns: model.InferColumns(res.Records),
			Layout:  model.Preferences{Mobile: model.ModeCards, Desktop: model.ModeTable},
		}
		if manifest, err = m.Marshal(); err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		cfg.Data.Manifest = ManifestFileName
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	out = append([]byte("# rv configuration. Environment variables (RV_*) and flags override it.\n"), out...)

	files := []initFile{{filepath.Join(dir, config.FileNames[0]), out}}
	if manifest != nil {
		files = append(files, initFile{manifestPath, manifest})
	}

	if !force {
		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
			}
		}
	}

	var written []string
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
