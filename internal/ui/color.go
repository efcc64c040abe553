package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetColorForcing overrides terminal detection: force renders colour even
// when stdout is not a terminal, disable strips it.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// C renders s with style.
func C(style lipgloss.Style, s string) string { return style.Render(s) }

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render(current.SymFail+" "+msg))
}

// Info prints a muted bullet line.
func Info(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Muted.Render(current.SymBullet+" "+msg))
}
