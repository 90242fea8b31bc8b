package report

import (
	"io"
	"os"
	"regexp"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
	ansiReset  = "\033[0m"
)

type palette struct {
	red, yellow, bold, reset string
}

func newPalette(color bool) palette {
	if !color {
		return palette{}
	}
	return palette{red: ansiRed, yellow: ansiYellow, bold: ansiBold, reset: ansiReset}
}

var ansiRe = regexp.MustCompile("\033\\[[0-9;]*m")

// StripColor removes ANSI colour sequences from s.
func StripColor(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// ColorEnabled reports whether colour output should be used for f. Colour is
// off when disabled is set, NO_COLOR is present, or f is not a terminal.
func ColorEnabled(f *os.File, disabled bool) bool {
	if disabled {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Writer wraps f so ANSI sequences render on every platform.
func Writer(f *os.File) io.Writer {
	return colorable.NewColorable(f)
}
