package domain

// Shuffler permutes n elements through swap. *math/rand/v2.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewDeck lays out every symbol of env twice and shuffles the result.
func NewDeck(env Environment, shuffler Shuffler) []string {
	deck := make([]string, 0, 2*len(env.Symbols))
	deck = append(deck, env.Symbols...)
	deck = append(deck, env.Symbols...)
	if shuffler != nil {
		shuffler.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}
	return deck
}
