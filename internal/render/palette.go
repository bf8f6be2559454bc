package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI colors matching portage's own output.
const (
	colorRed       = "9"
	colorGreen     = "10"
	colorDarkGreen = "2"
	colorTurquoise = "14"
	colorBlue      = "12"
)

// Palette paints single-line tokens. The zero value paints nothing.
type Palette struct {
	Bold      func(string) string
	Red       func(string) string
	Green     func(string) string
	DarkGreen func(string) string
	Turquoise func(string) string
	Blue      func(string) string
}

// NewPalette returns a palette writing ANSI sequences for w when color is
// true, and a plain one otherwise.
func NewPalette(w io.Writer, color bool) Palette {
	if !color {
		return PlainPalette()
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	fg := func(c string) func(string) string {
		s := r.NewStyle().Foreground(lipgloss.Color(c))
		return func(text string) string { return s.Render(text) }
	}
	bold := r.NewStyle().Bold(true)
	return Palette{
		Bold:      func(text string) string { return bold.Render(text) },
		Red:       fg(colorRed),
		Green:     fg(colorGreen),
		DarkGreen: fg(colorDarkGreen),
		Turquoise: fg(colorTurquoise),
		Blue:      fg(colorBlue),
	}
}

// PlainPalette returns a palette that leaves text untouched.
func PlainPalette() Palette {
	id := func(s string) string { return s }
	return Palette{Bold: id, Red: id, Green: id, DarkGreen: id, Turquoise: id, Blue: id}
}
