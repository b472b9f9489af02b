package viewport

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBreakpoints is returned when breakpoint thresholds are not
// positive and strictly increasing.
var ErrInvalidBreakpoints = errors.New("breakpoints must be positive and strictly increasing")

// Breakpoints are the width thresholds in pixels.
type Breakpoints struct {
	Mobile  int `koanf:"mobile" yaml:"mobile" json:"mobile"`
	Tablet  int `koanf:"tablet" yaml:"tablet" json:"tablet"`
	Desktop int `koanf:"desktop" yaml:"desktop" json:"desktop"`
}

// Animations configures transition timing for consumers.
type Animations struct {
	Enabled  bool          `koanf:"enabled" yaml:"enabled" json:"enabled"`
	Duration time.Duration `koanf:"duration" yaml:"duration" json:"duration"`
	Easing   string        `koanf:"easing" yaml:"easing" json:"easing"`
}

// Gestures configures touch gesture recognition for consumers.
type Gestures struct {
	SwipeThreshold int           `koanf:"swipe_threshold" yaml:"swipe_threshold" json:"swipe_threshold"`
	TapTimeout     time.Duration `koanf:"tap_timeout" yaml:"tap_timeout" json:"tap_timeout"`
}

// Config is the responsive configuration. It is supplied once when a store
// is created and is not reloaded at runtime.
type Config struct {
	Breakpoints Breakpoints `koanf:"breakpoints" yaml:"breakpoints" json:"breakpoints"`
	// TouchTargetSize is the minimum interactive element size in pixels.
	// Consumers apply it; the store does not enforce it.
	TouchTargetSize int        `koanf:"touch_target_size" yaml:"touch_target_size" json:"touch_target_size"`
	Animations      Animations `koanf:"animations" yaml:"animations" json:"animations"`
	Gestures        Gestures   `koanf:"gestures" yaml:"gestures" json:"gestures"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Breakpoints: Breakpoints{
			Mobile:  640,
			Tablet:  1024,
			Desktop: 1280,
		},
		TouchTargetSize: 44,
		Animations: Animations{
			Enabled:  true,
			Duration: 300 * time.Millisecond,
			Easing:   "ease-in-out",
		},
		Gestures: Gestures{
			SwipeThreshold: 50,
			TapTimeout:     300 * time.Millisecond,
		},
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	b := c.Breakpoints
	if b.Mobile <= 0 || b.Tablet <= b.Mobile || b.Desktop <= b.Tablet {
		return fmt.Errorf("%w: mobile=%d tablet=%d desktop=%d",
			ErrInvalidBreakpoints, b.Mobile, b.Tablet, b.Desktop)
	}
	if c.TouchTargetSize < 0 {
		return fmt.Errorf("touch target size must not be negative: %d", c.TouchTargetSize)
	}
	return nil
}

// Sanitize replaces unusable sections with their defaults. It never fails.
func (c Config) Sanitize() Config {
	def := DefaultConfig()
	b := c.Breakpoints
	if b.Mobile <= 0 || b.Tablet <= b.Mobile || b.Desktop <= b.Tablet {
		c.Breakpoints = def.Breakpoints
	}
	if c.TouchTargetSize <= 0 {
		c.TouchTargetSize = def.TouchTargetSize
	}
	if c.Animations.Duration < 0 {
		c.Animations.Duration = def.Animations.Duration
	}
	if c.Animations.Easing == "" {
		c.Animations.Easing = def.Animations.Easing
	}
	if c.Gestures.SwipeThreshold <= 0 {
		c.Gestures.SwipeThreshold = def.Gestures.SwipeThreshold
	}
	if c.Gestures.TapTimeout <= 0 {
		c.Gestures.TapTimeout = def.Gestures.TapTimeout
	}
	return c
}

// Overrides is a partial Config. Nil fields keep the base value.
type Overrides struct {
	Breakpoints     *BreakpointOverrides
	TouchTargetSize *int
	Animations      *AnimationOverrides
	Gestures        *GestureOverrides
}

// BreakpointOverrides overrides individual thresholds.
type BreakpointOverrides struct {
	Mobile  *int
	Tablet  *int
	Desktop *int
}

// AnimationOverrides overrides individual animation settings.
type AnimationOverrides struct {
	Enabled  *bool
	Duration *time.Duration
	Easing   *string
}

// GestureOverrides overrides individual gesture settings.
type GestureOverrides struct {
	SwipeThreshold *int
	TapTimeout     *time.Duration
}

// Apply merges o over c and returns the result. c is not modified.
func (c Config) Apply(o Overrides) Config {
	if b := o.Breakpoints; b != nil {
		setInt(&c.Breakpoints.Mobile, b.Mobile)
		setInt(&c.Breakpoints.Tablet, b.Tablet)
		setInt(&c.Breakpoints.Desktop, b.Desktop)
	}
	setInt(&c.TouchTargetSize, o.TouchTargetSize)
	if a := o.Animations; a != nil {
		if a.Enabled != nil {
			c.Animations.Enabled = *a.Enabled
		}
		if a.Duration != nil {
			c.Animations.Duration = *a.Duration
		}
		if a.Easing != nil {
			c.Animations.Easing = *a.Easing
		}
	}
	if g := o.Gestures; g != nil {
		setInt(&c.Gestures.SwipeThreshold, g.SwipeThreshold)
		if g.TapTimeout != nil {
			c.Gestures.TapTimeout = *g.TapTimeout
		}
	}
	return c
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Int returns a pointer to v, for building Overrides literals.
func Int(v int) *int { return &v }
