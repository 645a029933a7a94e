// Package game implements the rules of War for two players.
//
// The main type is Game, which owns both players' hands, the center pile of
// contested cards, the round counter and the final verdict.
//
// # Basic Usage
//
//	g := game.New(rng)
//	for !g.IsEnded() {
//	    outcome, err := g.PlayRound()
//	    if err != nil {
//	        break
//	    }
//	    render(outcome)
//	}
//	stats := g.Stats()
//
// # Deterministic Testing
//
// New takes the shuffle's random source explicitly. Use randutil.New(seed)
// to replay a game, or WithHands to stack both hands card by card:
//
//	g := game.New(nil, game.WithHands(
//	    deck.MustParseCards("4h"),
//	    deck.MustParseCards("5s"),
//	))
//
// Timestamps come from a quartz.Clock (WithClock), so tests can pin start
// and end times with quartz.NewMock.
//
// # Rules
//
//   - Each round both players turn over the front card of their hand.
//   - The stronger card takes the whole pile onto the back of its owner's
//     hand, in the order the cards were laid down.
//   - Equal strength starts a war: each player lays up to three cards face
//     down and the next face-up pair decides the enlarged pile. Wars chain
//     while the cards keep tying.
//   - A round requested while a hand is empty ends the game, as does a war
//     that a player cannot continue. The player holding more cards wins;
//     equal hands are a tie.
//
// A Game is single-threaded: callers serialise PlayRound requests.
package game
