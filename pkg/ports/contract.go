package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGameStoreContract runs a suite of tests to verify that a GameStore implementation
// adheres to the defined interface contract.
func RunGameStoreContract(t *testing.T, store GameStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newGame := func(id string) *domain.Game {
		return &domain.Game{
			SessionID:   id,
			Environment: "fruits",
			Deck:        []string{"🍎", "🍌", "🍎", "🍌"},
			Flipped:     []int{},
			Matched:     []int{},
			StartedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		game := newGame(sessionID)
		game.Flipped = []int{1}
		game.Matched = []int{0, 2}
		game.Moves = 3

		err := store.Save(ctx, sessionID, game)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, game.Environment, loaded.Environment)
		assert.Equal(t, game.Deck, loaded.Deck)
		assert.Equal(t, []int{1}, loaded.Flipped)
		assert.Equal(t, []int{0, 2}, loaded.Matched)
		assert.Equal(t, 3, loaded.Moves)
		assert.True(t, game.StartedAt.Equal(loaded.StartedAt), "StartedAt must survive a round trip")
	})

	t.Run("Load Is Isolated From Caller", func(t *testing.T) {
		game := newGame(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, game))

		game.Moves = 42
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Moves, "mutating the saved pointer must not change the store")

		loaded.Deck[0] = "x"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "🍎", again.Deck[0], "mutating a loaded game must not change the store")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		first := newGame(sessionID)
		first.Moves = 5
		require.NoError(t, store.Save(ctx, sessionID, first))

		second := newGame(sessionID)
		second.Environment = "birds"
		require.NoError(t, store.Save(ctx, sessionID, second))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "birds", loaded.Environment)
		assert.Equal(t, 0, loaded.Moves)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newGame(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newGame(id1))
		_ = store.Save(ctx, id2, newGame(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
