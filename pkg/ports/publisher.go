package ports

import (
	"context"

	"github.com/aretw0/pairs/pkg/domain"
)

// EventPublisher forwards game lifecycle events outside the process.
// Publish failures must not affect the outcome of the game operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
