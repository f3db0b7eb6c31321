/*
Package pairs is a memory-matching (card pairs) game engine with an HTTP, MCP and
terminal front end.

A player picks an environment (a themed set of emoji), the engine deals a shuffled
deck holding two of every symbol, and the player flips cards two at a time. The engine
keeps the per-session state (deck, face-up cards, matched cards, move counter and start
time) behind a pluggable store, so the same rules serve a browser through cookies, an
AI agent through MCP tools, or a terminal.

# Usage

	eng := pairs.New()

	ctx := context.Background()
	start, err := eng.Start(ctx, "session-123", "fruits")
	if err != nil {
		log.Fatal(err)
	}
	log.Println("deck size:", start.DeckSize)

	res, err := eng.Flip(ctx, "session-123", 0)
	if err != nil {
		log.Fatal(err) // domain.ErrInvalidIndex for bad or repeated indices
	}
	log.Println("face up:", res.Flipped)

	score, _ := eng.Score(ctx, "session-123")
	log.Printf("%d/%d pairs in %s", score.MatchedPairs, score.TotalPairs, score.Elapsed)

# Persistence

By default games live in memory. Use WithStore with one of the adapters in
pkg/adapters (file, redis) to keep sessions elsewhere, and WithLocker to serialize
flips across replicas.
*/
package pairs
