// Copyright © 2024 The ELPS authors

package term

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

var colorModeStrings = []string{
	ColorAuto:   "auto",
	ColorAlways: "always",
	ColorNever:  "never",
}

func (m ColorMode) String() string {
	if int(m) < 0 || int(m) >= len(colorModeStrings) {
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
	return colorModeStrings[m]
}

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	for m, name := range colorModeStrings {
		if s == name {
			return ColorMode(m), nil
		}
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Enabled reports whether output written to w should be colored.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette maps style classes and log levels to colors.
type palette map[string]*color.Color

func newPalette(enabled bool) palette {
	p := palette{
		"str":    color.New(color.FgGreen),
		"num":    color.New(color.FgBlue),
		"bool":   color.New(color.FgMagenta),
		"sym":    color.New(color.FgMagenta),
		"undef":  color.New(color.FgHiBlack),
		"fn":     color.New(color.FgCyan, color.Italic),
		"tag":    color.New(color.FgCyan),
		"field":  color.New(color.FgHiMagenta),
		"repr":   color.New(color.Faint),
		"clear":  color.New(color.FgHiBlack),
		"arrow":  color.New(color.FgHiBlack),
		"button": color.New(color.Underline),
		"warn":   color.New(color.FgYellow),
		"error":  color.New(color.FgRed),
		"debug":  color.New(color.FgHiBlack),
		"trace":  color.New(color.FgHiBlack),
	}
	for _, c := range p {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) paint(class, s string) string {
	c, ok := p[class]
	if !ok || s == "" {
		return s
	}
	return c.Sprint(s)
}
