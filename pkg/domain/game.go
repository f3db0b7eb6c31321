package domain

import (
	"slices"
	"time"
)

// Game is the per-session snapshot of a match in progress.
type Game struct {
	// SessionID identifies the player session that owns the game.
	SessionID string `json:"session_id"`

	// Environment is the catalog key the deck was built from.
	Environment string `json:"environment"`

	// Deck is the shuffled board, two of every symbol.
	Deck []string `json:"deck"`

	// Flipped holds the face-up cards awaiting comparison (0 or 1 between calls).
	Flipped []int `json:"flipped"`

	// Matched holds every index already paired, appended two at a time.
	Matched []int `json:"matched"`

	// Moves counts individual card flips.
	Moves int `json:"moves"`

	// StartedAt is when the deck was dealt.
	StartedAt time.Time `json:"started_at"`
}

// FlipResult describes the board after a flip.
type FlipResult struct {
	Flipped    []int    `json:"flipped"`
	Matched    []int    `json:"matched"`
	Deck       []string `json:"deck"`
	Moves      int      `json:"moves"`
	MatchedNow bool     `json:"matched_now"`

	// Pair is the two indices compared by this flip, empty on a first flip.
	Pair []int `json:"-"`
}

// Score summarizes the progress of a game at a point in time.
type Score struct {
	Moves        int           `json:"moves"`
	Elapsed      time.Duration `json:"-"`
	MatchedPairs int           `json:"matched_pairs"`
	TotalPairs   int           `json:"total_pairs"`
	Complete     bool          `json:"game_complete"`
}

// NewGame deals a fresh deck for env.
func NewGame(sessionID string, env Environment, shuffler Shuffler, now time.Time) *Game {
	return &Game{
		SessionID:   sessionID,
		Environment: env.Name,
		Deck:        NewDeck(env, shuffler),
		Flipped:     []int{},
		Matched:     []int{},
		StartedAt:   now,
	}
}

// Flip turns the card at index face up. On the second pending flip the two cards
// are compared; equal symbols move into Matched and Flipped is emptied either way.
func (g *Game) Flip(index int) (FlipResult, error) {
	if len(g.Deck) == 0 || index < 0 || index >= len(g.Deck) {
		return FlipResult{}, ErrInvalidIndex
	}
	if slices.Contains(g.Flipped, index) || slices.Contains(g.Matched, index) {
		return FlipResult{}, ErrCardAlreadyFlipped
	}

	g.Flipped = append(g.Flipped, index)
	g.Moves++

	var pair []int
	matched := false
	if len(g.Flipped) == 2 {
		first, second := g.Flipped[0], g.Flipped[1]
		pair = []int{first, second}
		if g.Deck[first] == g.Deck[second] {
			g.Matched = append(g.Matched, first, second)
			matched = true
		}
		g.Flipped = []int{}
	}

	return FlipResult{
		Flipped:    slices.Clone(g.Flipped),
		Matched:    slices.Clone(g.Matched),
		Deck:       slices.Clone(g.Deck),
		Moves:      g.Moves,
		MatchedNow: matched,
		Pair:       pair,
	}, nil
}

// Score reports the progress of the game as of now.
func (g *Game) Score(now time.Time) Score {
	elapsed := now.Sub(g.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return Score{
		Moves:        g.Moves,
		Elapsed:      elapsed,
		MatchedPairs: len(g.Matched) / 2,
		TotalPairs:   len(g.Deck) / 2,
		Complete:     g.Complete(),
	}
}

// Complete reports whether every card has been matched.
func (g *Game) Complete() bool {
	return len(g.Matched) == len(g.Deck)
}

// Snapshot returns a deep copy that shares no slices with g.
func (g *Game) Snapshot() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Deck = slices.Clone(g.Deck)
	cp.Flipped = cloneIndices(g.Flipped)
	cp.Matched = cloneIndices(g.Matched)
	return &cp
}

func cloneIndices(in []int) []int {
	if in == nil {
		return []int{}
	}
	return slices.Clone(in)
}
