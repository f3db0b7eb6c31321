package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/pkg/ports"
	"github.com/aretw0/pairs/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Game
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, game *domain.Game) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Game)
	}
	s.data[sessionID] = game.Snapshot()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Game, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if game, ok := s.data[sessionID]; ok {
		return game.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateSerializesWrites(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, &domain.Game{SessionID: id}))

	var wg sync.WaitGroup
	concurrentWrites := 20
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(g *domain.Game) error {
				g.Moves++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Without the per-session lock, read-modify-write would lose increments.
	game, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, concurrentWrites, game.Moves)
}

func TestManager_UpdateErrors(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	t.Run("Missing Session", func(t *testing.T) {
		_, err := manager.Update(ctx, "nobody", func(g *domain.Game) error { return nil })
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Callback Error Skips Save", func(t *testing.T) {
		require.NoError(t, manager.Save(ctx, "s", &domain.Game{SessionID: "s"}))
		boom := errors.New("boom")

		_, err := manager.Update(ctx, "s", func(g *domain.Game) error {
			g.Moves = 99
			return boom
		})
		assert.ErrorIs(t, err, boom)

		game, err := manager.Load(ctx, "s")
		require.NoError(t, err)
		assert.Zero(t, game.Moves)
	})
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
	ttl      time.Duration
	err      error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.ttl = ttl
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("Lock And Release", func(t *testing.T) {
		locker := &recordingLocker{}
		manager := session.NewManager(&SlowStore{}, session.WithLocker(locker), session.WithLockTTL(5*time.Second))

		require.NoError(t, manager.Save(ctx, "s1", &domain.Game{}))
		_ = manager.Delete(ctx, "s1")

		assert.Equal(t, []string{"s1", "s1"}, locker.locked)
		assert.Equal(t, 2, locker.unlocked)
		assert.Equal(t, 5*time.Second, locker.ttl)
	})

	t.Run("Lock Failure", func(t *testing.T) {
		locker := &recordingLocker{err: errors.New("unavailable")}
		manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))

		err := manager.Save(ctx, "s1", &domain.Game{})
		assert.ErrorContains(t, err, "failed to acquire distributed lock")
	})
}
