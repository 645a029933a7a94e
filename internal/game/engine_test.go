package game

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/war/internal/deck"
	"github.com/lox/war/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(s string) []deck.Card {
	return deck.MustParseCards(s)
}

// newStackedGame starts a game from fixed hands with a mock clock.
func newStackedGame(t *testing.T, hand1, hand2 string, opts ...Option) (*Game, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	opts = append([]Option{
		WithID("test-game"),
		WithClock(clock),
		WithHands(cards(hand1), cards(hand2)),
		WithLogger(log.New(io.Discard)),
	}, opts...)
	return New(nil, opts...), clock
}

// eventRecorder captures events for assertions
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

func TestNewDealsEvenHands(t *testing.T) {
	g := New(randutil.New(42), WithID("seeded"))

	assert.Equal(t, InProgress, g.State())
	assert.Equal(t, 26, g.Player1().CardCount())
	assert.Equal(t, 26, g.Player2().CardCount())
	assert.Equal(t, deck.Size, g.CardTotal())
	assert.Empty(t, g.Pile())
	assert.Equal(t, Undecided, g.Winner())
	assert.Equal(t, DefaultPlayer1, g.Player1().Name)
	assert.Equal(t, DefaultPlayer2, g.Player2().Name)

	all := append(g.Player1().Hand(), g.Player2().Hand()...)
	assert.ElementsMatch(t, deck.Standard(), all)
}

func TestNewGeneratesID(t *testing.T) {
	g := New(randutil.New(1))
	assert.Len(t, g.ID(), 26)
}

func TestNewWithDeckAndNames(t *testing.T) {
	d := deck.FromCards(cards("2h3h4h5h"))
	g := New(nil, WithID("x"), WithDeck(d), WithPlayerNames("Alice", "Bob"))

	assert.Equal(t, cards("2h3h"), g.Player1().Hand())
	assert.Equal(t, cards("4h5h"), g.Player2().Hand())
	assert.Equal(t, "Alice", g.Player1().Name)
	assert.Equal(t, "Bob", g.Player2().Name)
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() []RoundOutcome {
		g := New(randutil.New(2024), WithID("repeat"), WithClock(quartz.NewMock(t)))
		var outcomes []RoundOutcome
		for i := 0; i < 200 && !g.IsEnded(); i++ {
			out, err := g.PlayRound()
			require.NoError(t, err)
			outcomes = append(outcomes, out)
		}
		return outcomes
	}

	assert.Equal(t, play(), play())
}

func TestPlayRoundHigherCardTakesPile(t *testing.T) {
	g, _ := newStackedGame(t, "AsQh", "Kd2c")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, out.Dealt)
	assert.Equal(t, cards("As")[0], out.Player1Card)
	assert.Equal(t, cards("Kd")[0], out.Player2Card)
	assert.Equal(t, Seat1, out.AwardedTo)
	assert.Equal(t, 2, out.PileAwarded)
	assert.False(t, out.WarTriggered)
	assert.False(t, out.GameEnded)
	assert.Equal(t, 1, out.Round)
	assert.Len(t, out.Battles, 1)

	// Won cards go to the back in pile order: player 1's card first.
	assert.Equal(t, cards("QhAsKd"), g.Player1().Hand())
	assert.Equal(t, cards("2c"), g.Player2().Hand())
	assert.Equal(t, 2, g.Player1().CardsWon())
	assert.Zero(t, g.Player2().CardsWon())
	assert.Empty(t, g.Pile())
}

func TestPlayRoundSecondPlayerWins(t *testing.T) {
	g, _ := newStackedGame(t, "3c", "Jh")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.Equal(t, Seat2, out.AwardedTo)
	assert.Equal(t, cards("Jh3c"), g.Player2().Hand())
	assert.Equal(t, 2, g.Player2().CardsWon())
	assert.Equal(t, 0, out.Player1Cards)
	assert.Equal(t, 2, out.Player2Cards)
}

func TestFourAgainstFiveTriggersWar(t *testing.T) {
	g, _ := newStackedGame(t, "4h", "5s")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, out.WarTriggered)
	assert.Equal(t, 1, out.Wars())
	// Neither player can ante, so the game ends with the pile unawarded.
	assert.True(t, out.GameEnded)
	assert.Equal(t, NoSeat, out.AwardedTo)
	assert.Equal(t, Tie, out.Winner)
	assert.Equal(t, 2, out.PileCards)
	assert.Equal(t, 1, out.Round)
}

func TestWarResolvedByNextCard(t *testing.T) {
	g, _ := newStackedGame(t, "7h2c3c4cAh", "7s2d3d4dKh")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, out.WarTriggered)
	assert.Equal(t, Seat1, out.AwardedTo)
	assert.Equal(t, 10, out.PileAwarded)
	assert.Equal(t, 2, out.Round, "each face-up comparison counts as a round")
	require.Len(t, out.Battles, 2)
	assert.True(t, out.Battles[0].Tied())
	assert.Equal(t, cards("2c3c4c"), out.Battles[0].Player1Ante)
	assert.Equal(t, cards("2d3d4d"), out.Battles[0].Player2Ante)
	assert.False(t, out.Battles[1].Tied())

	// Antes alternate between players in the pile.
	assert.Equal(t, cards("7h7s2c2d3c3d4c4dAhKh"), g.Player1().Hand())
	assert.Equal(t, 10, g.Player1().CardsWon())
	assert.Zero(t, g.Player2().CardCount())
	assert.False(t, g.IsEnded(), "an empty hand only ends the game on the next request")

	out, err = g.PlayRound()
	require.NoError(t, err)
	assert.False(t, out.Dealt)
	assert.True(t, out.GameEnded)
	assert.Equal(t, Player1, out.Winner)
	assert.Equal(t, 2, out.Round, "a refused round does not count")
}

func TestChainedWars(t *testing.T) {
	g, _ := newStackedGame(t, "Th2c3c6cJh2s3s6sAh", "Ts2d3d7dJd2h3h8hKd")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.Equal(t, 2, out.Wars())
	assert.Equal(t, 3, out.Round)
	assert.Len(t, out.Battles, 3)
	assert.Equal(t, Seat1, out.AwardedTo)
	assert.Equal(t, 18, out.PileAwarded)
	assert.Equal(t, 18, g.Player1().CardCount())
	assert.Equal(t, 2, g.Stats().Wars)
}

func TestWarAnteStopsWhenHandRunsOut(t *testing.T) {
	g, _ := newStackedGame(t, "9h2c", "9s3d4d5d6d")

	out, err := g.PlayRound()
	require.NoError(t, err)

	require.Len(t, out.Battles, 1)
	assert.Equal(t, cards("2c"), out.Battles[0].Player1Ante)
	assert.Equal(t, cards("3d4d5d"), out.Battles[0].Player2Ante)

	assert.True(t, out.GameEnded)
	assert.Equal(t, NoSeat, out.AwardedTo)
	assert.Equal(t, Player2, out.Winner)
	assert.Equal(t, cards("9h9s2c3d4d5d"), g.Pile())
	assert.Equal(t, cards("6d"), g.Player2().Hand())
	assert.Equal(t, 7, g.CardTotal())
}

func TestRepeatedTiesExhaustPlayer(t *testing.T) {
	// Every comparison ties until player 1 cannot ante any more.
	g, _ := newStackedGame(t, "8h2c2d2h8d3c", "8s2s3s3h8cAsKsQs")

	out, err := g.PlayRound()
	require.NoError(t, err)

	assert.Equal(t, 2, out.Wars())
	assert.True(t, out.GameEnded)
	assert.Equal(t, NoSeat, out.AwardedTo)
	assert.Equal(t, Player2, out.Winner)
	assert.Zero(t, g.Player1().CardsWon())
	assert.Zero(t, g.Player2().CardsWon())
	assert.Equal(t, cards("Qs"), g.Player2().Hand())
	assert.Equal(t, 14, g.CardTotal())
}

func TestEmptyHandEndsGame(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	g, _ := newStackedGame(t, "AsKs", "", WithEventBus(bus))

	out, err := g.PlayRound()
	require.NoError(t, err)

	require.Equal(t, []EventType{EventTypeGameOver}, rec.types())
	over := rec.events[0].(GameOverEvent)
	assert.Equal(t, Player1, over.Winner)
	assert.True(t, over.Stats.Ended())

	_, err = g.PlayRound()
	require.ErrorIs(t, err, ErrGameOver)
	assert.Len(t, rec.events, 1)

	assert.False(t, out.Dealt)
	assert.True(t, out.GameEnded)
	assert.Equal(t, Player1, out.Winner)
	assert.Equal(t, Player1, g.Winner())
	assert.Equal(t, Ended, g.State())
	assert.Zero(t, out.Round)
}

func TestEqualHandsAtEndIsTie(t *testing.T) {
	g, _ := newStackedGame(t, "", "")

	out, err := g.PlayRound()
	require.NoError(t, err)
	assert.Equal(t, Tie, out.Winner)
}

func TestPlayRoundAfterEndIsRejected(t *testing.T) {
	g, _ := newStackedGame(t, "As", "")
	_, err := g.PlayRound()
	require.NoError(t, err)

	before := g.Stats()
	out, err := g.PlayRound()
	assert.ErrorIs(t, err, ErrGameOver)
	assert.True(t, out.GameEnded)
	assert.Equal(t, Player1, out.Winner)
	assert.Equal(t, before, g.Stats())
}

func TestZeroGameIsNotStarted(t *testing.T) {
	var g Game
	_, err := g.PlayRound()
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Equal(t, NotStarted, g.State())

	assert.Zero(t, g.CardTotal())
	assert.Equal(t, Stats{State: NotStarted}, g.Stats())
	assert.Equal(t, Undecided, g.End())
	assert.Zero(t, g.Player1().CardCount())
	assert.False(t, g.Player2().HasCards())
}

func TestLastRoundThenRefusedRoundEvents(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	g, _ := newStackedGame(t, "Ah", "2c", WithEventBus(bus))

	out, err := g.PlayRound()
	require.NoError(t, err)
	assert.False(t, out.GameEnded)
	assert.Equal(t, []EventType{EventTypeRoundPlayed}, rec.types())

	out, err = g.PlayRound()
	require.NoError(t, err)
	assert.False(t, out.Dealt)
	assert.True(t, out.GameEnded)
	assert.Equal(t, []EventType{EventTypeRoundPlayed, EventTypeGameOver}, rec.types())
}

func TestValidatePlayerName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"Alice", true},
		{"Player 1", true},
		{"Vsevolod", true},
		{"Rock vs Roll", false},
		{"Bob\nWinner: Bob", false},
		{"Carol\r", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlayerName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPlayerName)
			}
		})
	}
}

func TestCardConservation(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		g := New(randutil.New(seed), WithID("conservation"), WithClock(quartz.NewMock(t)))
		for i := 0; i < 3000 && !g.IsEnded(); i++ {
			out, err := g.PlayRound()
			require.NoError(t, err)
			require.Equal(t, deck.Size, g.CardTotal(), "seed %d round %d", seed, i)
			require.Equal(t, deck.Size, out.Player1Cards+out.Player2Cards+out.PileCards)
		}

		if g.IsEnded() {
			s := g.Stats()
			switch {
			case s.Player1Cards > s.Player2Cards:
				assert.Equal(t, Player1, s.Winner)
			case s.Player2Cards > s.Player1Cards:
				assert.Equal(t, Player2, s.Winner)
			default:
				assert.Equal(t, Tie, s.Winner)
			}
		}
	}
}

func TestStatsDuration(t *testing.T) {
	g, clock := newStackedGame(t, "AsKs", "2c")
	start := clock.Now()

	clock.Advance(5 * time.Second)
	s := g.Stats()
	assert.Equal(t, start, s.StartTime)
	assert.True(t, s.EndTime.IsZero())
	assert.Equal(t, 5*time.Second, s.Duration)
	assert.False(t, s.Ended())

	_, err := g.PlayRound()
	require.NoError(t, err)
	clock.Advance(3 * time.Second)
	_, err = g.PlayRound()
	require.NoError(t, err)
	require.True(t, g.IsEnded())

	end := g.Stats()
	assert.Equal(t, 8*time.Second, end.Duration)
	assert.Equal(t, start.Add(8*time.Second), end.EndTime)

	clock.Advance(time.Minute)
	assert.Equal(t, end, g.Stats(), "stats are frozen after the game ends")
	assert.Equal(t, Player1, g.Winner())
	assert.Equal(t, Player1, g.Winner())
}

func TestStatsCounters(t *testing.T) {
	g, _ := newStackedGame(t, "AsKs2h", "QdJd3h", WithPlayerNames("Alice", ""))

	for i := 0; i < 2; i++ {
		_, err := g.PlayRound()
		require.NoError(t, err)
	}

	s := g.Stats()
	assert.Equal(t, "test-game", s.GameID)
	assert.Equal(t, "Alice", s.Player1Name)
	assert.Equal(t, DefaultPlayer2, s.Player2Name)
	assert.Equal(t, 2, s.RoundsPlayed)
	assert.Equal(t, 4, s.Player1CardsWon)
	assert.Zero(t, s.Player2CardsWon)
	assert.Equal(t, 5, s.Player1Cards)
	assert.Equal(t, 1, s.Player2Cards)
	assert.Equal(t, InProgress, s.State)
	assert.Equal(t, Undecided, s.Winner)
}

func TestEndFinalisesOnce(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	g, _ := newStackedGame(t, "2c", "AsKs", WithEventBus(bus))

	assert.Equal(t, Player2, g.End())
	assert.Equal(t, Player2, g.End())
	assert.True(t, g.IsEnded())
	assert.Equal(t, []EventType{EventTypeGameOver}, rec.types())
}

func TestEventsPublished(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	g, _ := newStackedGame(t, "9h2c", "9s3d4d5d6d", WithEventBus(bus))

	_, err := g.PlayRound()
	require.NoError(t, err)

	require.Equal(t, []EventType{EventTypeWar, EventTypeRoundPlayed, EventTypeGameOver}, rec.types())

	war := rec.events[0].(WarEvent)
	assert.Equal(t, 1, war.Depth)
	assert.Equal(t, 2, war.PileSize)
	assert.Equal(t, "test-game", war.GameID)

	over := rec.events[2].(GameOverEvent)
	assert.Equal(t, Player2, over.Winner)
	assert.True(t, over.Stats.Ended())
}

func TestSubscriberFunc(t *testing.T) {
	var got []EventType
	bus := NewEventBus()
	bus.Subscribe(SubscriberFunc(func(e GameEvent) { got = append(got, e.EventType()) }))
	g, _ := newStackedGame(t, "As", "Kd", WithEventBus(bus))

	_, err := g.PlayRound()
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventTypeRoundPlayed}, got)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Player 1", Player1.String())
	assert.Equal(t, "Player 2", Player2.String())
	assert.Equal(t, "Tie", Tie.String())
	assert.Equal(t, "Undecided", Undecided.String())
	assert.Equal(t, "in progress", InProgress.String())
	assert.Equal(t, "ended", Ended.String())
	assert.Equal(t, "war", EventTypeWar.String())
}
