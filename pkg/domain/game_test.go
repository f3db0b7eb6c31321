package domain_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGame(deck ...string) *domain.Game {
	return &domain.Game{
		SessionID:   "s1",
		Environment: "fruits",
		Deck:        deck,
		Flipped:     []int{},
		Matched:     []int{},
		StartedAt:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewGame_DeckHoldsEveryPair(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, env := range domain.DefaultCatalog().All() {
		t.Run(env.Name, func(t *testing.T) {
			game := domain.NewGame("s1", env, rng, time.Now())

			require.Len(t, game.Deck, 16)
			counts := make(map[string]int)
			for _, s := range game.Deck {
				counts[s]++
			}
			assert.Len(t, counts, 8)
			for _, sym := range env.Symbols {
				assert.Equal(t, 2, counts[sym], "symbol %s", sym)
			}
			assert.Empty(t, game.Flipped)
			assert.Empty(t, game.Matched)
			assert.Zero(t, game.Moves)
		})
	}
}

func TestNewDeck_WithoutShufflerKeepsOrder(t *testing.T) {
	env := domain.Environment{Name: "tiny", Symbols: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b", "a", "b"}, domain.NewDeck(env, nil))
}

func TestGame_Flip(t *testing.T) {
	t.Run("Match Moves Pair To Matched", func(t *testing.T) {
		game := fixedGame("🍎", "🍎", "🍌", "🍌")

		res, err := game.Flip(0)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, res.Flipped)
		assert.False(t, res.MatchedNow)
		assert.Equal(t, 1, res.Moves)

		res, err = game.Flip(1)
		require.NoError(t, err)
		assert.True(t, res.MatchedNow)
		assert.Equal(t, []int{0, 1}, res.Matched)
		assert.Empty(t, res.Flipped)
		assert.Equal(t, []int{0, 1}, res.Pair)
		assert.Equal(t, 2, res.Moves)
		assert.Equal(t, []string{"🍎", "🍎", "🍌", "🍌"}, res.Deck)
	})

	t.Run("Mismatch Leaves Matched Unchanged", func(t *testing.T) {
		game := fixedGame("🍎", "🍌", "🍎", "🍌")

		_, err := game.Flip(0)
		require.NoError(t, err)
		res, err := game.Flip(1)
		require.NoError(t, err)

		assert.False(t, res.MatchedNow)
		assert.Empty(t, res.Matched)
		assert.Empty(t, res.Flipped)
		assert.Empty(t, game.Flipped)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		game := fixedGame("a", "a")
		for _, idx := range []int{-1, 2, 100} {
			_, err := game.Flip(idx)
			assert.ErrorIs(t, err, domain.ErrInvalidIndex, "index %d", idx)
		}
		assert.Zero(t, game.Moves)
	})

	t.Run("Empty Deck", func(t *testing.T) {
		game := fixedGame()
		_, err := game.Flip(0)
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
	})

	t.Run("Already Flipped", func(t *testing.T) {
		game := fixedGame("a", "b", "a", "b")
		_, err := game.Flip(0)
		require.NoError(t, err)

		_, err = game.Flip(0)
		assert.ErrorIs(t, err, domain.ErrCardAlreadyFlipped)
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
		assert.Equal(t, 1, game.Moves)
	})

	t.Run("Already Matched", func(t *testing.T) {
		game := fixedGame("a", "a", "b", "b")
		_, _ = game.Flip(0)
		_, _ = game.Flip(1)

		_, err := game.Flip(1)
		assert.ErrorIs(t, err, domain.ErrCardAlreadyFlipped)
	})

	t.Run("Result Does Not Alias Game", func(t *testing.T) {
		game := fixedGame("a", "a")
		_, _ = game.Flip(0)
		res, _ := game.Flip(1)
		res.Matched[0] = 99
		res.Deck[0] = "z"
		assert.Equal(t, []int{0, 1}, game.Matched)
		assert.Equal(t, "a", game.Deck[0])
	})
}

func TestGame_Score(t *testing.T) {
	game := fixedGame("a", "a", "b", "b")
	start := game.StartedAt

	score := game.Score(start.Add(90 * time.Second))
	assert.Equal(t, 90*time.Second, score.Elapsed)
	assert.Equal(t, 0, score.MatchedPairs)
	assert.Equal(t, 2, score.TotalPairs)
	assert.False(t, score.Complete)

	_, _ = game.Flip(0)
	_, _ = game.Flip(1)
	score = game.Score(start.Add(time.Minute))
	assert.Equal(t, 1, score.MatchedPairs)
	assert.False(t, score.Complete)

	_, _ = game.Flip(2)
	_, _ = game.Flip(3)
	score = game.Score(start.Add(2 * time.Minute))
	assert.Equal(t, 2, score.MatchedPairs)
	assert.Equal(t, 4, score.Moves)
	assert.True(t, score.Complete)

	t.Run("Clock Skew Clamps To Zero", func(t *testing.T) {
		assert.Zero(t, game.Score(start.Add(-time.Second)).Elapsed)
	})
}

func TestGame_Snapshot(t *testing.T) {
	game := fixedGame("a", "a")
	_, _ = game.Flip(0)

	snap := game.Snapshot()
	snap.Flipped[0] = 1
	snap.Deck[1] = "b"

	assert.Equal(t, []int{0}, game.Flipped)
	assert.Equal(t, "a", game.Deck[1])
	assert.Nil(t, (*domain.Game)(nil).Snapshot())
}
