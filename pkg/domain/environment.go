package domain

import (
	"fmt"
	"strings"
)

// DefaultEnvironment is used when a game is started without choosing a theme.
const DefaultEnvironment = "fruits"

// Colors holds the card face colors a client should use for an environment.
type Colors struct {
	Front string `json:"front" yaml:"front" mapstructure:"front"`
	Back  string `json:"back" yaml:"back" mapstructure:"back"`
}

// Environment is a named theme. Each symbol appears twice in a deck.
type Environment struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Symbols     []string `json:"symbols" yaml:"symbols" mapstructure:"symbols"`
	Colors      Colors   `json:"colors" yaml:"colors" mapstructure:"colors"`
	Description string   `json:"description,omitempty" yaml:"description" mapstructure:"description"`
}

// Pairs returns how many pairs a deck of this environment holds.
func (e Environment) Pairs() int {
	return len(e.Symbols)
}

// Validate checks that the environment can produce a playable deck:
// a non-empty name, at least two symbols and no duplicated symbol.
func (e Environment) Validate() error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return fmt.Errorf("%w: environment name is required", ErrInvalidCatalog)
	}
	if name != e.Name || strings.ContainsAny(name, " /?&#") {
		return fmt.Errorf("%w: environment name %q must be a plain key", ErrInvalidCatalog, e.Name)
	}
	if len(e.Symbols) < 2 {
		return fmt.Errorf("%w: environment %q needs at least 2 symbols, got %d", ErrInvalidCatalog, e.Name, len(e.Symbols))
	}

	seen := make(map[string]struct{}, len(e.Symbols))
	for _, s := range e.Symbols {
		if s == "" {
			return fmt.Errorf("%w: environment %q has an empty symbol", ErrInvalidCatalog, e.Name)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: environment %q repeats symbol %q", ErrInvalidCatalog, e.Name, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// builtinEnvironments is the catalog every server starts with.
var builtinEnvironments = []Environment{
	{
		Name:    "fruits",
		Symbols: []string{"🍎", "🍌", "🍇", "🍓", "🍍", "🍉", "🍒", "🥝"},
		Colors:  Colors{Front: "#FF6F61", Back: "#FFEBEE"},
	},
	{
		Name:    "birds",
		Symbols: []string{"🦜", "🦉", "🦢", "🦩", "🐦", "🐤", "🐧", "🦆"},
		Colors:  Colors{Front: "#42A5F5", Back: "#E3F2FD"},
	},
	{
		Name:    "cars",
		Symbols: []string{"🚗", "🚕", "🚙", "🚓", "🏎️", "🚑", "🚒", "🚐"},
		Colors:  Colors{Front: "#FFB300", Back: "#FFF8E1"},
	},
	{
		Name:    "clothes",
		Symbols: []string{"👗", "👚", "👕", "👖", "👔", "🧥", "👘", "👠"},
		Colors:  Colors{Front: "#8E24AA", Back: "#F3E5F5"},
	},
	{
		Name:    "electronics",
		Symbols: []string{"💻", "📱", "🖥️", "🖨️", "🎧", "📷", "⌨️", "🕹️"},
		Colors:  Colors{Front: "#1E88E5", Back: "#E1F5FE"},
	},
	{
		Name:    "animals",
		Symbols: []string{"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼"},
		Colors:  Colors{Front: "#66BB6A", Back: "#E8F5E9"},
	},
	{
		Name:    "nature",
		Symbols: []string{"🌳", "🌷", "🌵", "🍂", "🍁", "🌴", "🌺", "🌊"},
		Colors:  Colors{Front: "#388E3C", Back: "#E8F5E9"},
	},
}
