package main

import (
	"io"
	"os"

	"github.com/aledsdavies/batparse/core/treefmt"
)

// Re-export color constants from treefmt for convenience
const (
	ColorReset  = treefmt.ColorReset
	ColorRed    = treefmt.ColorRed
	ColorGreen  = treefmt.ColorGreen
	ColorYellow = treefmt.ColorYellow
	ColorBlue   = treefmt.ColorBlue
	ColorCyan   = treefmt.ColorCyan
	ColorGray   = treefmt.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	return treefmt.Colorize(text, color, useColor)
}

// ShouldUseColor resolves the color mode for output written to w.
// "auto" colors only when w is a terminal.
func ShouldUseColor(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
