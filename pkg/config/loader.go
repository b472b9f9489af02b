package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by
// a double underscore: RV_RESPONSIVE__BREAKPOINTS__MOBILE=600.
const EnvPrefix = "RV_"

// FileNames are the config file names searched for, in order.
var FileNames = []string{"rv.yaml", "rv.yml"}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps command-line flags onto config keys. Flags not listed
// here are command options, not configuration.
var flagKeys = map[string]string{
	"mobile-breakpoint":  "responsive.breakpoints.mobile",
	"tablet-breakpoint":  "responsive.breakpoints.tablet",
	"desktop-breakpoint": "responsive.breakpoints.desktop",
	"resize-debounce":    "store.resize_debounce",
	"keyboard-threshold": "store.keyboard_threshold",
	"cell-width":         "cells.width",
	"cell-height":        "cells.height",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"log-file":           "log.file",
	"manifest":           "data.manifest",
	"input-format":       "data.format",
	"query":              "data.query",
	"driver":             "data.driver",
}

// BindFlags registers the configuration flags on fs. Their defaults are
// zero values; only flags the user sets take part in loading.
func BindFlags(fs *pflag.FlagSet) {
	fs.Int("mobile-breakpoint", 0, "width in pixels below which the viewport is mobile")
	fs.Int("tablet-breakpoint", 0, "tablet threshold in pixels (informational)")
	fs.Int("desktop-breakpoint", 0, "width in pixels from which the viewport is desktop")
	fs.Duration("resize-debounce", 0, "quiet period before a resize is applied")
	fs.Int("keyboard-threshold", 0, "height loss in pixels that signals an on-screen keyboard")
	fs.Int("cell-width", 0, "pixels per terminal column")
	fs.Int("cell-height", 0, "pixels per terminal row")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (text, json)")
	fs.String("log-file", "", "write logs to this file")
	fs.String("manifest", "", "layout manifest (YAML)")
	fs.String("input-format", "", "input format (jsonl, json, sqlite); detected when empty")
	fs.String("query", "", "SQL query or table name for SQLite input")
	fs.String("driver", "", "SQLite driver (sqlite or sqlite3)")
}

// Options controls Load.
type Options struct {
	// File is an explicit config file. When empty the file is searched
	// for upward from Dir.
	File string
	// Dir is where the search starts; the working directory when empty.
	Dir   string
	Flags *pflag.FlagSet
}

// Result is a loaded configuration.
type Result struct {
	Config Config
	// File is the config file used, if any.
	File string
	// Warnings lists values that were replaced by defaults.
	Warnings []string
}

// FindFile searches dir and its parents for a config file.
func FindFile(dir string) string {
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(opts Options) (*Result, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := opts.File
	if path == "" {
		dir := opts.Dir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		path = FindFile(dir)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: RV_STORE__RESIZE_DEBOUNCE -> store.resize_debounce
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags the user set
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg, warnings := cfg.Sanitize()
	return &Result{Config: cfg, File: path, Warnings: warnings}, nil
}
