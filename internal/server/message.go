package server

import (
	"encoding/json"
	"time"

	"github.com/lox/war/internal/deck"
	"github.com/lox/war/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

// NewGameData optionally overrides the session's defaults for the next game
type NewGameData struct {
	Player1 string `json:"player1,omitempty"`
	Player2 string `json:"player2,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
}

// Validate checks that any names given can be recorded in the stats file
func (d NewGameData) Validate() error {
	for _, name := range []string{d.Player1, d.Player2} {
		if err := game.ValidatePlayerName(name); err != nil {
			return err
		}
	}
	return nil
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GameStartedData struct {
	GameID       string `json:"gameId"`
	Seed         int64  `json:"seed"`
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player1Cards int    `json:"player1Cards"`
	Player2Cards int    `json:"player2Cards"`
}

type BattleData struct {
	Player1Card string   `json:"player1Card"`
	Player2Card string   `json:"player2Card"`
	Tied        bool     `json:"tied"`
	Player1Ante []string `json:"player1Ante,omitempty"`
	Player2Ante []string `json:"player2Ante,omitempty"`
}

type RoundData struct {
	GameID       string       `json:"gameId"`
	Round        int          `json:"round"`
	Dealt        bool         `json:"dealt"`
	Battles      []BattleData `json:"battles,omitempty"`
	AwardedTo    string       `json:"awardedTo,omitempty"`
	PileAwarded  int          `json:"pileAwarded"`
	WarTriggered bool         `json:"warTriggered"`
	GameEnded    bool         `json:"gameEnded"`
	Winner       string       `json:"winner"`
	Player1Cards int          `json:"player1Cards"`
	Player2Cards int          `json:"player2Cards"`
	PileCards    int          `json:"pileCards"`
	Exported     string       `json:"exported,omitempty"` // Stats file written on game over
}

type StatsData struct {
	GameID          string        `json:"gameId"`
	Player1         string        `json:"player1"`
	Player2         string        `json:"player2"`
	State           string        `json:"state"`
	Winner          string        `json:"winner"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	Duration        time.Duration `json:"durationNs"`
	RoundsPlayed    int           `json:"roundsPlayed"`
	Wars            int           `json:"wars"`
	Player1CardsWon int           `json:"player1CardsWon"`
	Player2CardsWon int           `json:"player2CardsWon"`
	Player1Cards    int           `json:"player1Cards"`
	Player2Cards    int           `json:"player2Cards"`
	PileCards       int           `json:"pileCards"`
}

type ExportedData struct {
	GameID string `json:"gameId"`
	Path   string `json:"path"`
	Winner string `json:"winner"`
}

// RoundDataFromOutcome converts an engine outcome for the wire. The winner is
// reported by player name once decided.
func RoundDataFromOutcome(gameID string, out game.RoundOutcome, name1, name2 string) RoundData {
	data := RoundData{
		GameID:       gameID,
		Round:        out.Round,
		Dealt:        out.Dealt,
		PileAwarded:  out.PileAwarded,
		WarTriggered: out.WarTriggered,
		GameEnded:    out.GameEnded,
		Winner:       winnerName(out.Winner, name1, name2),
		Player1Cards: out.Player1Cards,
		Player2Cards: out.Player2Cards,
		PileCards:    out.PileCards,
	}
	switch out.AwardedTo {
	case game.Seat1:
		data.AwardedTo = name1
	case game.Seat2:
		data.AwardedTo = name2
	}
	for _, b := range out.Battles {
		data.Battles = append(data.Battles, BattleData{
			Player1Card: b.Player1Card.String(),
			Player2Card: b.Player2Card.String(),
			Tied:        b.Tied(),
			Player1Ante: cardStrings(b.Player1Ante),
			Player2Ante: cardStrings(b.Player2Ante),
		})
	}
	return data
}

// StatsDataFromGame converts a stats snapshot for the wire
func StatsDataFromGame(s game.Stats) StatsData {
	data := StatsData{
		GameID:          s.GameID,
		Player1:         s.Player1Name,
		Player2:         s.Player2Name,
		State:           s.State.String(),
		Winner:          winnerName(s.Winner, s.Player1Name, s.Player2Name),
		StartTime:       s.StartTime,
		Duration:        s.Duration,
		RoundsPlayed:    s.RoundsPlayed,
		Wars:            s.Wars,
		Player1CardsWon: s.Player1CardsWon,
		Player2CardsWon: s.Player2CardsWon,
		Player1Cards:    s.Player1Cards,
		Player2Cards:    s.Player2Cards,
		PileCards:       s.PileCards,
	}
	if s.Ended() {
		end := s.EndTime
		data.EndTime = &end
	}
	return data
}

func winnerName(w game.Winner, name1, name2 string) string {
	switch w {
	case game.Player1:
		return name1
	case game.Player2:
		return name2
	default:
		return w.String()
	}
}

func cardStrings(cards []deck.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
