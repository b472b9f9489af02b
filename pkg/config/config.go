// Package config loads the rv configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// YAML config file (rv.yaml or rv.yml, searched upward from the working
// directory, or an explicit --config), RV_ environment variables, and
// command-line flags. The configuration is read once at startup.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/responsive"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/watcher"
)

// Config holds all rv configuration.
type Config struct {
	Responsive viewport.Config      `koanf:"responsive" yaml:"responsive"`
	Store      StoreConfig          `koanf:"store" yaml:"store"`
	Cells      viewport.CellMetrics `koanf:"cells" yaml:"cells"`
	Log        LogConfig            `koanf:"log" yaml:"log"`
	Data       DataConfig           `koanf:"data" yaml:"data"`
}

// StoreConfig tunes the responsive store's event handling.
type StoreConfig struct {
	ResizeDebounce    time.Duration `koanf:"resize_debounce" yaml:"resize_debounce"`
	OrientationDelay  time.Duration `koanf:"orientation_delay" yaml:"orientation_delay"`
	KeyboardThreshold int           `koanf:"keyboard_threshold" yaml:"keyboard_threshold"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // text or json
	// File receives log output. Empty discards logs while the explorer
	// owns the terminal and writes to stderr otherwise.
	File string `koanf:"file" yaml:"file,omitempty"`
}

// DataConfig describes where records come from and how they are laid out.
type DataConfig struct {
	Manifest string `koanf:"manifest" yaml:"manifest,omitempty"`
	Format   string `koanf:"format" yaml:"format,omitempty"`
	Query    string `koanf:"query" yaml:"query,omitempty"`
	Driver   string `koanf:"driver" yaml:"driver,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Responsive: viewport.DefaultConfig(),
		Store: StoreConfig{
			ResizeDebounce:    watcher.DefaultResizeDebounce,
			OrientationDelay:  watcher.DefaultOrientationDelay,
			KeyboardThreshold: responsive.DefaultKeyboardThreshold,
		},
		Cells: viewport.DefaultCellMetrics,
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// defaultMap is Default flattened into koanf keys.
func defaultMap() map[string]any {
	d := Default()
	r := d.Responsive
	return map[string]any{
		"responsive.breakpoints.mobile":       r.Breakpoints.Mobile,
		"responsive.breakpoints.tablet":       r.Breakpoints.Tablet,
		"responsive.breakpoints.desktop":      r.Breakpoints.Desktop,
		"responsive.touch_target_size":        r.TouchTargetSize,
		"responsive.animations.enabled":       r.Animations.Enabled,
		"responsive.animations.duration":      r.Animations.Duration,
		"responsive.animations.easing":        r.Animations.Easing,
		"responsive.gestures.swipe_threshold": r.Gestures.SwipeThreshold,
		"responsive.gestures.tap_timeout":     r.Gestures.TapTimeout,
		"store.resize_debounce":               d.Store.ResizeDebounce,
		"store.orientation_delay":             d.Store.OrientationDelay,
		"store.keyboard_threshold":            d.Store.KeyboardThreshold,
		"cells.width":                         d.Cells.Width,
		"cells.height":                        d.Cells.Height,
		"log.level":                           d.Log.Level,
		"log.format":                          d.Log.Format,
	}
}

// Sanitize replaces unusable values with defaults and reports what it
// replaced.
func (c Config) Sanitize() (Config, []string) {
	var warnings []string
	def := Default()

	if err := c.Responsive.Validate(); err != nil {
		warnings = append(warnings, err.Error())
		c.Responsive = c.Responsive.Sanitize()
	}
	if c.Store.ResizeDebounce <= 0 {
		c.Store.ResizeDebounce = def.Store.ResizeDebounce
	}
	if c.Store.OrientationDelay <= 0 {
		c.Store.OrientationDelay = def.Store.OrientationDelay
	}
	if c.Store.KeyboardThreshold <= 0 {
		c.Store.KeyboardThreshold = def.Store.KeyboardThreshold
	}
	if c.Cells.Width <= 0 || c.Cells.Height <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid cell size %dx%d", c.Cells.Width, c.Cells.Height))
		c.Cells = def.Cells
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		warnings = append(warnings, err.Error())
		c.Log.Level = def.Log.Level
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
		c.Log.Format = strings.ToLower(c.Log.Format)
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log format %q", c.Log.Format))
		c.Log.Format = def.Log.Format
	}
	return c, warnings
}

// StoreOptions returns the store options this configuration implies.
func (c Config) StoreOptions() []responsive.Option {
	return []responsive.Option{
		responsive.WithConfig(c.Responsive),
		responsive.WithResizeDebounce(c.Store.ResizeDebounce),
		responsive.WithOrientationDelay(c.Store.OrientationDelay),
		responsive.WithKeyboardThreshold(c.Store.KeyboardThreshold),
	}
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
