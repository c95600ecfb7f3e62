package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{` _   _ __  __ _                _     `, "#38bdf8"},
	{`| | | |  \/  | |  __      _____| |__  `, "#22d3ee"},
	{`| | | | |\/| | |  \ \ /\ / / _ \ '_ \ `, "#2dd4bf"},
	{`| |_| | |  | | |___\ V  V /  __/ |_) |`, "#34d399"},
	{` \___/|_|  |_|_____|\_/\_/ \___|_.__/ `, "#4ade80"},
}

// PrintBanner writes the umlweb banner to w, coloured when the terminal supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
