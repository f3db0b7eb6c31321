package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/jonboulle/clockwork"
)

type entry struct {
	game      *domain.Game
	expiresAt time.Time // zero means no expiration
}

// Store implements ports.GameStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]entry
	mu    sync.RWMutex
	ttl   time.Duration
	clock clockwork.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires sessions ttl after their last Save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock sets the clock used to evaluate expirations.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string]entry),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the game in memory.
func (s *Store) Save(ctx context.Context, sessionID string, game *domain.Game) error {
	// Deep copy to ensure isolation, similar to serialization
	e := entry{game: game.Snapshot()}
	if s.ttl > 0 {
		e.expiresAt = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = e
	return nil
}

// Load retrieves the game from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Game, error) {
	s.mu.RLock()
	e, ok := s.data[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(e) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Save may have refreshed it.
		if cur, ok := s.data[sessionID]; ok && s.expired(cur) {
			delete(s.data, sessionID)
		}
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't mutate store state directly by pointer
	return e.game.Snapshot(), nil
}

// Delete removes the game.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions, pruning expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
			continue
		}
		sessions = append(sessions, id)
	}
	return sessions, nil
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt)
}
