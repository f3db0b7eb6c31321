/*
Package domain contains the core domain models and rules of the pairs game.

It defines the themed symbol sets players choose from, the shuffled deck built from
them and the per-session Game that tracks flips, matches and moves. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Environment: A named theme holding the unique symbols (and colors) of a deck.
  - Catalog: The ordered set of environments a server offers.
  - Game: The runtime snapshot of a session (Deck, Flipped, Matched, Moves, StartedAt).
  - Event: A lifecycle notification emitted after each successful transition.
*/
package domain
