package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns Markdown into the text written to the user.
type RenderFunc func(markdown string) (string, error)

// NewRenderer returns a glamour renderer with a style matched to the
// terminal background, wrapping lines at width (0 disables wrapping).
func NewRenderer(width int) (RenderFunc, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// Plain returns the Markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// ForFile picks glamour when f is an interactive terminal and Plain otherwise,
// so piped output stays valid Markdown.
func ForFile(f *os.File) RenderFunc {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Plain
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}
	r, err := NewRenderer(width)
	if err != nil {
		return Plain
	}
	return r
}
