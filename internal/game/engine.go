package game

import (
	"errors"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/war/internal/deck"
	"github.com/lox/war/internal/gameid"
)

// WarAnte is the number of face-down cards each player adds to the pile
// after a tie.
const WarAnte = 3

var (
	// ErrInvalidPlayerName is returned by ValidatePlayerName.
	ErrInvalidPlayerName = errors.New("invalid player name")
	// ErrGameOver is returned by PlayRound once the game has ended.
	ErrGameOver = errors.New("game is over")
	// ErrNotStarted is returned by PlayRound on a Game not built with New.
	ErrNotStarted = errors.New("game has not started")
)

// State is the lifecycle stage of a game
type State int

const (
	NotStarted State = iota
	InProgress
	Ended
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Winner is the final verdict of a game
type Winner int

const (
	Undecided Winner = iota
	Player1
	Player2
	Tie
)

// String returns the label used in stats output
func (w Winner) String() string {
	switch w {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	case Tie:
		return "Tie"
	default:
		return "Undecided"
	}
}

// Seat identifies which player a pile was awarded to
type Seat int

const (
	NoSeat Seat = iota
	Seat1
	Seat2
)

// Battle is one face-up comparison. When the cards tie, the ante fields hold
// the face-down cards each player added before the next comparison.
type Battle struct {
	Player1Card deck.Card
	Player2Card deck.Card
	Player1Ante []deck.Card
	Player2Ante []deck.Card
}

// Tied reports whether the battle ended in equal strength
func (b Battle) Tied() bool {
	return b.Player1Card.Ties(b.Player2Card)
}

// RoundOutcome describes the result of a single PlayRound call.
type RoundOutcome struct {
	Round int // Rounds played after this call

	// Dealt is false when the round was refused because a hand was empty.
	Dealt       bool
	Player1Card deck.Card // First face-up card of the round
	Player2Card deck.Card
	Battles     []Battle // Every comparison, including those inside a war

	AwardedTo    Seat
	PileAwarded  int
	WarTriggered bool

	GameEnded bool
	Winner    Winner

	Player1Cards int
	Player2Cards int
	PileCards    int
}

// Wars returns the number of ties resolved in this round
func (o RoundOutcome) Wars() int {
	n := 0
	for _, b := range o.Battles {
		if b.Tied() {
			n++
		}
	}
	return n
}

// Stats is a snapshot of a game's bookkeeping
type Stats struct {
	GameID       string
	Player1Name  string
	Player2Name  string
	State        State
	Winner       Winner
	StartTime    time.Time
	EndTime      time.Time // Zero while the game is in progress
	Duration     time.Duration
	RoundsPlayed int
	Wars         int

	Player1CardsWon int
	Player2CardsWon int
	Player1Cards    int
	Player2Cards    int
	PileCards       int
}

// Ended reports whether the snapshot was taken after the game ended
func (s Stats) Ended() bool {
	return s.State == Ended
}

// Game is a single War session. It is not safe for concurrent use; callers
// serialise PlayRound requests.
type Game struct {
	id       string
	p1, p2   *Player
	pile     []deck.Card
	state    State
	winner   Winner
	rounds   int
	wars     int
	start    time.Time
	end      time.Time
	clock    quartz.Clock
	logger   *log.Logger
	eventBus EventBus
}

// New shuffles a deck with rng, deals it and starts the game clock. A nil rng
// uses the process-wide generator; pass randutil.New(seed) for reproducible
// games.
//
// Example usage:
//
//	g := game.New(randutil.New(42), game.WithPlayerNames("Alice", "Bob"))
//	for !g.IsEnded() {
//	    outcome, _ := g.PlayRound()
//	    ...
//	}
func New(rng *rand.Rand, opts ...Option) *Game {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var hand1, hand2 []deck.Card
	switch {
	case cfg.hands != nil:
		hand1, hand2 = cfg.hands[0], cfg.hands[1]
	case cfg.deck != nil:
		hand1, hand2 = cfg.deck.Split()
	default:
		hand1, hand2 = deck.New(rng).Split()
	}

	if cfg.id == "" {
		cfg.id = gameid.Generate()
	}

	g := &Game{
		id:       cfg.id,
		p1:       NewPlayer(cfg.names[0], hand1),
		p2:       NewPlayer(cfg.names[1], hand2),
		state:    InProgress,
		clock:    cfg.clock,
		logger:   cfg.logger.WithPrefix("game"),
		eventBus: cfg.eventBus,
	}
	g.start = g.clock.Now()

	g.logger.Debug("Game started", "id", g.id,
		"player1", g.p1.Name, "cards1", g.p1.CardCount(),
		"player2", g.p2.Name, "cards2", g.p2.CardCount())
	return g
}

// ID returns the game identifier
func (g *Game) ID() string { return g.id }

// State returns the lifecycle state
func (g *Game) State() State { return g.state }

// IsEnded reports whether the game has ended
func (g *Game) IsEnded() bool { return g.state == Ended }

// Winner returns the verdict, Undecided until the game ends
func (g *Game) Winner() Winner { return g.winner }

// Rounds returns the number of rounds played so far
func (g *Game) Rounds() int { return g.rounds }

// Player1 returns the first player, nil before New. Callers must treat it as
// read-only.
func (g *Game) Player1() *Player { return g.p1 }

// Player2 returns the second player, nil before New. Callers must treat it
// as read-only.
func (g *Game) Player2() *Player { return g.p2 }

// Pile returns a copy of the center pile
func (g *Game) Pile() []deck.Card { return cardsCopy(g.pile) }

// CardTotal returns hand sizes plus the pile, which is constant for a game.
// It is zero for a Game not built with New.
func (g *Game) CardTotal() int {
	return g.p1.CardCount() + g.p2.CardCount() + len(g.pile)
}

// PlayRound plays one round. If either hand is empty the round is refused
// and the game ends instead. A tie starts a war: each player antes up to
// WarAnte cards and the next pair of face-up cards decides the whole pile,
// repeating while the cards keep tying. A player who cannot continue a war
// ends the game with the pile left unawarded.
//
// The round counter advances once per face-up comparison, so a round with a
// war adds two or more.
func (g *Game) PlayRound() (RoundOutcome, error) {
	switch g.state {
	case NotStarted:
		return RoundOutcome{}, ErrNotStarted
	case Ended:
		return g.snapshot(RoundOutcome{}), ErrGameOver
	}

	if !g.p1.HasCards() || !g.p2.HasCards() {
		g.finish()
		g.publish(GameOverEvent{GameID: g.id, Winner: g.winner, Stats: g.Stats(), timestamp: g.end})
		return g.snapshot(RoundOutcome{}), nil
	}

	out := RoundOutcome{Dealt: true}
	for depth := 1; ; depth++ {
		c1, _ := g.p1.PlayCard()
		c2, _ := g.p2.PlayCard()
		g.pile = append(g.pile, c1, c2)
		g.rounds++

		if depth == 1 {
			out.Player1Card, out.Player2Card = c1, c2
		}
		battle := Battle{Player1Card: c1, Player2Card: c2}

		if c1.Beats(c2) {
			out.Battles = append(out.Battles, battle)
			g.award(&out, Seat1)
			break
		}
		if c2.Beats(c1) {
			out.Battles = append(out.Battles, battle)
			g.award(&out, Seat2)
			break
		}

		out.WarTriggered = true
		g.wars++
		g.logger.Debug("War", "id", g.id, "depth", depth, "p1", c1, "p2", c2, "pile", len(g.pile))
		g.publish(WarEvent{GameID: g.id, Tied: battle, PileSize: len(g.pile), Depth: depth, timestamp: g.clock.Now()})

		battle.Player1Ante, battle.Player2Ante = g.ante()
		out.Battles = append(out.Battles, battle)

		if !g.p1.HasCards() || !g.p2.HasCards() {
			g.finish()
			break
		}
	}

	out = g.snapshot(out)
	g.publish(RoundPlayedEvent{GameID: g.id, Outcome: out, timestamp: g.clock.Now()})
	if out.GameEnded {
		g.publish(GameOverEvent{GameID: g.id, Winner: g.winner, Stats: g.Stats(), timestamp: g.end})
	}
	return out, nil
}

// ante moves up to WarAnte cards from each hand into the pile, alternating
// player 1 then player 2.
func (g *Game) ante() (p1, p2 []deck.Card) {
	for i := 0; i < WarAnte; i++ {
		if c, ok := g.p1.PlayCard(); ok {
			g.pile = append(g.pile, c)
			p1 = append(p1, c)
		}
		if c, ok := g.p2.PlayCard(); ok {
			g.pile = append(g.pile, c)
			p2 = append(p2, c)
		}
	}
	return p1, p2
}

func (g *Game) award(out *RoundOutcome, seat Seat) {
	player := g.p1
	if seat == Seat2 {
		player = g.p2
	}
	out.AwardedTo = seat
	out.PileAwarded = len(g.pile)
	player.AddCards(g.pile)
	g.pile = nil
}

// End finalises the game if it is still running and returns the verdict.
// Calling it on an ended game is a no-op.
func (g *Game) End() Winner {
	if g.state == InProgress {
		g.finish()
		g.publish(GameOverEvent{GameID: g.id, Winner: g.winner, Stats: g.Stats(), timestamp: g.end})
	}
	return g.winner
}

// finish decides the winner by cards held, not cards won.
func (g *Game) finish() {
	g.end = g.clock.Now()
	g.state = Ended

	switch n1, n2 := g.p1.CardCount(), g.p2.CardCount(); {
	case n1 > n2:
		g.winner = Player1
	case n2 > n1:
		g.winner = Player2
	default:
		g.winner = Tie
	}

	g.logger.Info("Game over", "id", g.id, "winner", g.winner,
		"rounds", g.rounds, "wars", g.wars,
		"cards1", g.p1.CardCount(), "cards2", g.p2.CardCount(), "pile", len(g.pile))
}

func (g *Game) snapshot(out RoundOutcome) RoundOutcome {
	out.Round = g.rounds
	out.GameEnded = g.state == Ended
	out.Winner = g.winner
	out.Player1Cards = g.p1.CardCount()
	out.Player2Cards = g.p2.CardCount()
	out.PileCards = len(g.pile)
	return out
}

// Stats returns a snapshot of the game's bookkeeping. While the game runs,
// Duration is measured against the clock; once ended it is fixed.
func (g *Game) Stats() Stats {
	if g.state == NotStarted {
		return Stats{GameID: g.id, State: NotStarted}
	}
	s := Stats{
		GameID:          g.id,
		Player1Name:     g.p1.Name,
		Player2Name:     g.p2.Name,
		State:           g.state,
		Winner:          g.winner,
		StartTime:       g.start,
		EndTime:         g.end,
		RoundsPlayed:    g.rounds,
		Wars:            g.wars,
		Player1CardsWon: g.p1.CardsWon(),
		Player2CardsWon: g.p2.CardsWon(),
		Player1Cards:    g.p1.CardCount(),
		Player2Cards:    g.p2.CardCount(),
		PileCards:       len(g.pile),
	}
	if g.state == Ended {
		s.Duration = g.end.Sub(g.start)
	} else {
		s.Duration = g.clock.Since(g.start)
	}
	return s
}

func (g *Game) publish(event GameEvent) {
	if g.eventBus != nil {
		g.eventBus.Publish(event)
	}
}
