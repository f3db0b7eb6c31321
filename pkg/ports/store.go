package ports

import (
	"context"

	"github.com/aretw0/pairs/pkg/domain"
)

// GameStore defines the interface for persisting per-session game state.
type GameStore interface {
	// Save persists the game for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, game *domain.Game) error

	// Load retrieves the game for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist or has expired.
	Load(ctx context.Context, sessionID string) (*domain.Game, error)

	// Delete removes the game for a given session ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the sessions currently held.
	List(ctx context.Context) ([]string, error)
}
