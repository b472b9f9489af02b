// Package viewport classifies the host's viewport into breakpoints,
// orientation and touch capability.
//
// Everything in this package is a pure function of the environment's
// signals and the supplied Config. Dimensions are pixels; terminal hosts
// convert cells with CellMetrics.
package viewport

import "fmt"

// Fallback dimensions used when no interactive viewport is available
// (output piped to a file, CI, tests without a terminal).
const (
	FallbackWidth  = 1024
	FallbackHeight = 768
)

// Breakpoint is a named viewport-width category.
type Breakpoint int

const (
	Mobile Breakpoint = iota
	Tablet
	Desktop
)

// String returns the breakpoint name.
func (b Breakpoint) String() string {
	switch b {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Breakpoint) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Breakpoint) UnmarshalText(text []byte) error {
	bp, err := ParseBreakpoint(string(text))
	if err != nil {
		return err
	}
	*b = bp
	return nil
}

// ParseBreakpoint parses a breakpoint name.
func ParseBreakpoint(s string) (Breakpoint, error) {
	switch s {
	case "mobile":
		return Mobile, nil
	case "tablet":
		return Tablet, nil
	case "desktop":
		return Desktop, nil
	}
	return Mobile, fmt.Errorf("unknown breakpoint %q", s)
}

// Orientation of the viewport.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// String returns the orientation name.
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// State is the classified viewport. Breakpoint and Orientation are always
// derived from Width, Height and the Config; they are never set directly.
type State struct {
	Width       int         `json:"width" yaml:"width"`
	Height      int         `json:"height" yaml:"height"`
	Breakpoint  Breakpoint  `json:"breakpoint" yaml:"breakpoint"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	TouchDevice bool        `json:"touch_device" yaml:"touch_device"`
}

// ClassifyBreakpoint maps a width onto a breakpoint.
//
// The tablet/desktop boundary is Breakpoints.Desktop. Breakpoints.Tablet
// does not take part in this decision.
func ClassifyBreakpoint(width int, cfg Config) Breakpoint {
	switch {
	case width < cfg.Breakpoints.Mobile:
		return Mobile
	case width < cfg.Breakpoints.Desktop:
		return Tablet
	default:
		return Desktop
	}
}

// ClassifyOrientation returns Landscape iff width > height. Square
// viewports are Portrait.
func ClassifyOrientation(width, height int) Orientation {
	if width > height {
		return Landscape
	}
	return Portrait
}

// FallbackState is the viewport reported when no environment is available.
// It is always desktop/landscape, whatever the configured thresholds.
func FallbackState() State {
	return State{
		Width:       FallbackWidth,
		Height:      FallbackHeight,
		Breakpoint:  Desktop,
		Orientation: Landscape,
	}
}

// GetViewportState classifies the environment's current dimensions.
// A nil environment, or one that cannot report a size, yields the
// fallback viewport instead of an error.
func GetViewportState(env Environment, cfg Config) State {
	if env == nil {
		return FallbackState()
	}
	w, h, ok := env.Size()
	if !ok || w <= 0 || h <= 0 {
		return FallbackState()
	}
	return State{
		Width:       w,
		Height:      h,
		Breakpoint:  ClassifyBreakpoint(w, cfg),
		Orientation: ClassifyOrientation(w, h),
		TouchDevice: DetectTouchCapability(env.TouchSignals()),
	}
}
