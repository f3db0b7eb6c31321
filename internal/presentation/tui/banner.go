package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  ____       _          ", "#ff6f61"},
	{" |  _ \\ __ _(_)_ __ ___ ", "#ffb300"},
	{" | |_) / _` | | '__/ __|", "#66bb6a"},
	{" |  __/ (_| | | |  \\__ \\", "#42a5f5"},
	{" |_|   \\__,_|_|_|  |___/", "#8e24aa"},
}

// PrintBanner writes the title art in the given color profile.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, p.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
