package tui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Color settings accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled resolves whether output written to out is coloured. It is
// meant to be called once at startup and the result passed down.
func ColorEnabled(out *os.File, setting string, getenv func(string) string) bool {
	switch strings.ToLower(setting) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	// NO_COLOR disables colour whenever it is set to a non-empty value
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("TERM") == "dumb" {
		return false
	}
	if out == nil {
		return false
	}
	fd := out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
