package viewport

import (
	"strconv"
	"strings"
)

// TouchSignals are the input-capability hints a host exposes.
type TouchSignals struct {
	// TouchEvents reports native touch event support.
	TouchEvents bool
	// MaxTouchPoints is the number of simultaneous touch points.
	MaxTouchPoints int
	// MSMaxTouchPoints is the legacy vendor-prefixed touch point count.
	// Terminal hosts never set it.
	MSMaxTouchPoints int
}

// DetectTouchCapability reports whether any signal indicates touch input.
func DetectTouchCapability(s TouchSignals) bool {
	return s.TouchEvents || s.MaxTouchPoints > 0 || s.MSMaxTouchPoints > 0
}

// touchTerminals are terminal programs that run on touch-first devices.
var touchTerminals = map[string]bool{
	"ish":   true,
	"blink": true,
}

func terminalTouchSignals(getenv func(string) string) TouchSignals {
	var s TouchSignals
	if getenv("TERMUX_VERSION") != "" {
		s.TouchEvents = true
	}
	if n, err := strconv.Atoi(getenv("RV_TOUCH_POINTS")); err == nil && n > 0 {
		s.MaxTouchPoints = n
	}
	if s.MaxTouchPoints == 0 && touchTerminals[strings.ToLower(getenv("TERM_PROGRAM"))] {
		s.MaxTouchPoints = 1
	}
	return s
}
