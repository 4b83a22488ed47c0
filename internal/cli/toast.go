package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/kasa/internal/theme"
	"github.com/fatih/color"
)

type palette struct {
	success *color.Color
	failure *color.Color
	info    *color.Color
	accent  *color.Color
	muted   *color.Color
}

// Bright colours read better on dark backgrounds.
func paletteFor(t theme.Theme) palette {
	if t == theme.Light {
		return palette{
			success: color.New(color.FgGreen),
			failure: color.New(color.FgRed),
			info:    color.New(color.FgBlue),
			accent:  color.New(color.FgMagenta, color.Bold),
			muted:   color.New(color.FgBlack),
		}
	}
	return palette{
		success: color.New(color.FgHiGreen),
		failure: color.New(color.FgHiRed),
		info:    color.New(color.FgHiCyan),
		accent:  color.New(color.FgHiYellow, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
}

// Toast writes one-line success/error/info feedback.
type Toast struct {
	w       io.Writer
	palette palette
}

func NewToast(w io.Writer, t theme.Theme) *Toast {
	return &Toast{w: w, palette: paletteFor(t)}
}

func (t *Toast) SetTheme(th theme.Theme) {
	t.palette = paletteFor(th)
}

// noColor reports whether colour output is disabled (NO_COLOR, dumb or
// non-tty terminals).
func noColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

func (t *Toast) paint(c *color.Color, s string) string {
	if noColor() {
		return s
	}
	return c.Sprint(s)
}

func (t *Toast) print(c *color.Color, icon, format string, args ...any) {
	fmt.Fprintln(t.w, t.paint(c, icon+" "+fmt.Sprintf(format, args...)))
}

func (t *Toast) Success(format string, args ...any) {
	t.print(t.palette.success, "✓", format, args...)
}

func (t *Toast) Error(format string, args ...any) {
	t.print(t.palette.failure, "✗", format, args...)
}

func (t *Toast) Info(format string, args ...any) {
	t.print(t.palette.info, "•", format, args...)
}

// Accent and Muted style inline text, e.g. titles and dates.
func (t *Toast) Accent(s string) string { return t.paint(t.palette.accent, s) }
func (t *Toast) Muted(s string) string  { return t.paint(t.palette.muted, s) }

// NoteColor renders s in a note's color; unknown or empty colors are plain.
func (t *Toast) NoteColor(name, s string) string {
	attr, ok := noteColors[name]
	if !ok {
		return s
	}
	return t.paint(color.New(attr), s)
}

var noteColors = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
}
