package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidEnvironment is returned when a game is requested for an unknown theme.
var ErrInvalidEnvironment = errors.New("invalid environment")

// ErrInvalidIndex is returned when a flip targets no deck, an out of range position
// or a card that is already face up.
var ErrInvalidIndex = errors.New("invalid card index")

// ErrCardAlreadyFlipped is the ErrInvalidIndex case for cards already flipped or matched.
var ErrCardAlreadyFlipped = fmt.Errorf("%w: card already flipped", ErrInvalidIndex)

// ErrNotStarted is returned when a score is requested for a session without a game.
var ErrNotStarted = errors.New("game not started")

// ErrInvalidCatalog is returned when an environment definition cannot be used to build a deck.
var ErrInvalidCatalog = errors.New("invalid catalog")

// UnknownEnvironmentError names the environment that failed a catalog lookup.
type UnknownEnvironmentError struct {
	Name string
}

func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("%s '%s'", ErrInvalidEnvironment, e.Name)
}

func (e *UnknownEnvironmentError) Unwrap() error {
	return ErrInvalidEnvironment
}

// PlayerMessage returns the text shown to a player for a rule violation.
// It reports false for errors that are not caused by the player.
func PlayerMessage(err error) (string, bool) {
	var unknown *UnknownEnvironmentError
	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("Invalid environment '%s'", unknown.Name), true
	case errors.Is(err, ErrInvalidEnvironment):
		return "Invalid environment", true
	case errors.Is(err, ErrCardAlreadyFlipped):
		return "Card already flipped", true
	case errors.Is(err, ErrInvalidIndex):
		return "Invalid card index", true
	case errors.Is(err, ErrNotStarted):
		return "Game not started", true
	}
	return "", false
}
