package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderBoard(t *testing.T) {
	env, _ := domain.DefaultCatalog().Lookup("fruits")
	deck := domain.NewDeck(env, nil)

	out := RenderBoard(BoardView{
		Deck:     deck,
		Matched:  []int{0, 8},
		Revealed: []int{3},
		Colors:   env.Colors,
		Moves:    3,
	}, termenv.Ascii)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], deck[0], "matched card is shown")
	assert.Contains(t, lines[0], deck[3], "revealed card is shown")
	assert.NotContains(t, lines[0], deck[1], "hidden card stays face down")
	assert.Contains(t, out, "Moves: 3  Pairs: 1/8")
	assert.Equal(t, 13, strings.Count(out, "??"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.Ascii, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "|_|")
}

func TestNewRenderer_Plain(t *testing.T) {
	out, err := NewRenderer(true)("# Done")
	assert.NoError(t, err)
	assert.Equal(t, "# Done", out)
}
