package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGameStart    EventType = "game_start"
	EventCardFlip     EventType = "card_flip"
	EventPairMatch    EventType = "pair_match"
	EventGameComplete EventType = "game_complete"
	EventGameEnd      EventType = "game_end"
)

// Event is emitted after a successful game transition.
type Event struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	Environment string    `json:"environment,omitempty"`

	// Indices carries the flipped card (card_flip) or the pair (pair_match).
	Indices []int `json:"indices,omitempty"`

	Moves          int     `json:"moves"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
	DeckSize       int     `json:"deck_size,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnGameStart    func(context.Context, *Event)
	OnCardFlip     func(context.Context, *Event)
	OnPairMatch    func(context.Context, *Event)
	OnGameComplete func(context.Context, *Event)
	OnGameEnd      func(context.Context, *Event)
}

// Fire dispatches the event to the hook registered for its type.
func (h LifecycleHooks) Fire(ctx context.Context, e *Event) {
	var fn func(context.Context, *Event)
	switch e.Type {
	case EventGameStart:
		fn = h.OnGameStart
	case EventCardFlip:
		fn = h.OnCardFlip
	case EventPairMatch:
		fn = h.OnPairMatch
	case EventGameComplete:
		fn = h.OnGameComplete
	case EventGameEnd:
		fn = h.OnGameEnd
	}
	if fn != nil {
		fn(ctx, e)
	}
}

// OnAny returns hooks that route every event type to fn.
func OnAny(fn func(context.Context, *Event)) LifecycleHooks {
	return LifecycleHooks{
		OnGameStart:    fn,
		OnCardFlip:     fn,
		OnPairMatch:    fn,
		OnGameComplete: fn,
		OnGameEnd:      fn,
	}
}

// ChainHooks combines several hook sets; each event reaches every set in order.
func ChainHooks(sets ...LifecycleHooks) LifecycleHooks {
	if len(sets) == 1 {
		return sets[0]
	}
	fire := func(ctx context.Context, e *Event) {
		for _, s := range sets {
			s.Fire(ctx, e)
		}
	}
	return OnAny(fire)
}
