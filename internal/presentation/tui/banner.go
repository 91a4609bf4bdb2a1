package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Neovim greens fading into blue
	lines := []struct {
		text, color string
	}{
		{"                _                   __", "#16a34a"},
		{"  ____ _   __  (_)___ ___  _______  __/ /", "#22c55e"},
		{" / __ \\ | / / / / __ `__ \\/ ___/ / / / / ", "#10b981"},
		{"/ / / / |/ / / / / / / / (__  ) /_/ / /  ", "#14b8a6"},
		{"/_/ /_/|___/ /_/_/ /_/ /_/____/\\__,_/_/   ", "#0ea5e9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
