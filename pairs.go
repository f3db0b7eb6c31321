package pairs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/pairs/internal/logging"
	"github.com/aretw0/pairs/pkg/adapters/memory"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/pkg/ports"
	"github.com/aretw0/pairs/pkg/session"
	"github.com/jonboulle/clockwork"
)

// Engine is the high-level entry point for the pairs library.
// It owns the rules of a session (start, flip, score, end) and delegates
// persistence to a session.Manager.
type Engine struct {
	sessions *session.Manager
	store    ports.GameStore
	locker   ports.DistributedLocker
	catalog  *domain.Catalog
	clock    clockwork.Clock
	shuffler domain.Shuffler
	hooks    []domain.LifecycleHooks
	logger   *slog.Logger
}

// StartResult is returned by Start.
type StartResult struct {
	Environment string    `json:"environment"`
	DeckSize    int       `json:"deck_size"`
	StartedAt   time.Time `json:"timer_start"`
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where games are persisted. Defaults to an in-memory store.
func WithStore(store ports.GameStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of sessions across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithCatalog replaces the built-in environment catalog.
func WithCatalog(catalog *domain.Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithClock sets the clock used for start times and elapsed time.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRand sets the source used to shuffle decks. Calls are serialized by the engine.
func WithRand(shuffler domain.Shuffler) Option {
	return func(e *Engine) {
		e.shuffler = &lockedShuffler{s: shuffler}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. It may be given several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithPublisher forwards every lifecycle event to p. Publish errors are logged, never returned.
func WithPublisher(p ports.EventPublisher) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, domain.OnAny(func(ctx context.Context, ev *domain.Event) {
			if err := p.Publish(ctx, *ev); err != nil {
				e.logger.Warn("event publish failed", "type", ev.Type, "session_id", ev.SessionID, "err", err)
			}
		}))
	}
}

// New initializes a new Engine. With no options it plays the built-in catalog
// against an in-memory store and the wall clock.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.clock == nil {
		eng.clock = clockwork.NewRealClock()
	}
	if eng.store == nil {
		eng.store = memory.NewStore(memory.WithClock(eng.clock))
	}
	if eng.catalog == nil {
		eng.catalog = domain.DefaultCatalog()
	}
	if eng.shuffler == nil {
		eng.shuffler = globalShuffler{}
	}

	managerOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, managerOpts...)

	return eng
}

// Start deals a new deck for environment and replaces whatever game the session held.
// An empty environment selects domain.DefaultEnvironment.
func (e *Engine) Start(ctx context.Context, sessionID, environment string) (StartResult, error) {
	if environment == "" {
		environment = domain.DefaultEnvironment
	}
	env, err := e.catalog.Lookup(environment)
	if err != nil {
		return StartResult{}, err
	}

	now := e.clock.Now()
	game := domain.NewGame(sessionID, env, e.shuffler, now)
	if err := e.sessions.Save(ctx, sessionID, game); err != nil {
		return StartResult{}, fmt.Errorf("failed to save new game: %w", err)
	}

	e.logger.Debug("game started", "session_id", sessionID, "environment", env.Name, "deck_size", len(game.Deck))
	e.fire(ctx, &domain.Event{
		Type:        domain.EventGameStart,
		Timestamp:   now,
		SessionID:   sessionID,
		Environment: env.Name,
		DeckSize:    len(game.Deck),
	})

	return StartResult{
		Environment: env.Name,
		DeckSize:    len(game.Deck),
		StartedAt:   now,
	}, nil
}

// Flip turns a card of the session's game face up.
// It fails with domain.ErrInvalidIndex when the session has no game.
func (e *Engine) Flip(ctx context.Context, sessionID string, index int) (domain.FlipResult, error) {
	var result domain.FlipResult
	game, err := e.sessions.Update(ctx, sessionID, func(g *domain.Game) error {
		var err error
		result, err = g.Flip(index)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.FlipResult{}, fmt.Errorf("%w: no game in progress", domain.ErrInvalidIndex)
		}
		return domain.FlipResult{}, err
	}

	now := e.clock.Now()
	base := domain.Event{
		Timestamp:   now,
		SessionID:   sessionID,
		Environment: game.Environment,
		Moves:       game.Moves,
		DeckSize:    len(game.Deck),
	}

	flip := base
	flip.Type = domain.EventCardFlip
	flip.Indices = []int{index}
	e.fire(ctx, &flip)

	if result.MatchedNow {
		match := base
		match.Type = domain.EventPairMatch
		match.Indices = result.Pair
		e.fire(ctx, &match)

		if game.Complete() {
			done := base
			done.Type = domain.EventGameComplete
			done.ElapsedSeconds = game.Score(now).Elapsed.Seconds()
			e.logger.Info("game complete", "session_id", sessionID, "environment", game.Environment,
				"moves", game.Moves, "elapsed", done.ElapsedSeconds)
			e.fire(ctx, &done)
		}
	}

	return result, nil
}

// Score reports the progress of the session's game.
// It fails with domain.ErrNotStarted when the session has no game.
func (e *Engine) Score(ctx context.Context, sessionID string) (domain.Score, error) {
	game, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Score{}, domain.ErrNotStarted
		}
		return domain.Score{}, err
	}
	return game.Score(e.clock.Now()), nil
}

// Game returns a copy of the session's game.
func (e *Engine) Game(ctx context.Context, sessionID string) (*domain.Game, error) {
	return e.sessions.Load(ctx, sessionID)
}

// End discards the session's game.
func (e *Engine) End(ctx context.Context, sessionID string) error {
	var game *domain.Game
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()
		loaded, err := store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to end game: %w", err)
		}
		game = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	now := e.clock.Now()
	e.fire(ctx, &domain.Event{
		Type:           domain.EventGameEnd,
		Timestamp:      now,
		SessionID:      sessionID,
		Environment:    game.Environment,
		Moves:          game.Moves,
		ElapsedSeconds: game.Score(now).Elapsed.Seconds(),
		DeckSize:       len(game.Deck),
	})
	return nil
}

// Environments lists the playable themes in catalog order.
func (e *Engine) Environments() []domain.Environment {
	return e.catalog.All()
}

// Catalog returns the environment catalog.
func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog
}

// Sessions returns the session manager backing the engine.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Clock returns the engine clock.
func (e *Engine) Clock() clockwork.Clock {
	return e.clock
}

func (e *Engine) fire(ctx context.Context, ev *domain.Event) {
	for _, h := range e.hooks {
		h.Fire(ctx, ev)
	}
}

// globalShuffler uses the goroutine-safe top-level math/rand/v2 source.
type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

type lockedShuffler struct {
	mu sync.Mutex
	s  domain.Shuffler
}

func (l *lockedShuffler) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.Shuffle(n, swap)
}
