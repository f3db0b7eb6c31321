// Package tui draws the game for terminal play.
package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Columns is the width of the board grid.
const Columns = 4

// BoardView is what the player can see of a game.
type BoardView struct {
	Deck    []string
	Matched []int
	// Revealed are face-up cards that are not matched: the pending flip or the
	// pair that was just compared.
	Revealed []int
	Colors   domain.Colors
	Moves    int
}

// RenderBoard draws the grid, numbering each card by its index.
func RenderBoard(v BoardView, p termenv.Profile) string {
	var b strings.Builder
	width := len(fmt.Sprint(len(v.Deck) - 1))

	for i, symbol := range v.Deck {
		label := fmt.Sprintf("%*d", width, i)
		var face termenv.Style
		switch {
		case slices.Contains(v.Matched, i):
			face = p.String(fmt.Sprintf("%s %s ", label, pad(symbol))).Faint()
		case slices.Contains(v.Revealed, i):
			face = p.String(fmt.Sprintf("%s %s ", label, pad(symbol))).
				Foreground(p.Color(v.Colors.Front)).Bold()
		default:
			face = p.String(fmt.Sprintf("%s %s ", label, "??")).
				Foreground(p.Color(v.Colors.Back)).
				Background(p.Color(v.Colors.Front))
		}
		b.WriteString(face.String())
		if (i+1)%Columns == 0 || i == len(v.Deck)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}
	fmt.Fprintf(&b, "\nMoves: %d  Pairs: %d/%d\n", v.Moves, len(v.Matched)/2, len(v.Deck)/2)
	return b.String()
}

// pad keeps single-width symbols aligned with two-column emoji.
func pad(symbol string) string {
	if len([]rune(symbol)) == 1 && len(symbol) == 1 {
		return symbol + " "
	}
	return symbol
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Profile picks the color profile for f: the environment's when f is a terminal,
// plain ASCII otherwise.
func Profile(f *os.File) termenv.Profile {
	if IsTerminal(f) {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}
