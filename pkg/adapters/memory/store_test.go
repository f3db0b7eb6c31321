package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pairs/pkg/adapters/memory"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/pkg/ports"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunGameStoreContract(t, store)
}

func TestMemoryStore_TTL_Expiration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := memory.NewStore(memory.WithTTL(time.Minute), memory.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", &domain.Game{SessionID: "s1"}))

	clock.Advance(30 * time.Second)
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	// Saving again refreshes the deadline.
	require.NoError(t, store.Save(ctx, "s1", &domain.Game{SessionID: "s1"}))
	clock.Advance(45 * time.Second)
	_, err = store.Load(ctx, "s1")
	require.NoError(t, err)

	clock.Advance(15 * time.Second)
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
