package texcat

import (
	"os"
	"strings"
)

// GraphicsSupported reports whether the attached terminal understands the
// kitty graphics protocol, based on environment identification.
func GraphicsSupported() bool {
	// Contour sets CONTOUR_PROFILE but does not speak the kitty protocol.
	// Checked early because parent terminal variables (e.g. Ghostty's) can
	// leak into a nested Contour session.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM") == "xterm-kitty" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	// Konsole supports kitty graphics from 22.04 on.
	if v := os.Getenv("KONSOLE_VERSION"); len(v) >= 4 && v[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}
