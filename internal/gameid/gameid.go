// Package gameid generates sortable identifiers for games: a UUIDv7
// encoded as 26 lowercase Crockford base32 characters.
package gameid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in a game ID
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates game IDs from a configurable random source
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading randomness from r. A nil reader
// uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	id, err := NewGenerator(nil).Generate()
	if err != nil {
		panic("failed to generate game ID: " + err.Error())
	}
	return id
}

// Generate creates a new game ID. The millisecond timestamp prefix keeps IDs
// sortable by creation time.
func (g *Generator) Generate() (string, error) {
	u, err := uuid.NewV7FromReader(g.rand)
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return encoding.EncodeToString(u[:]), nil
}

// Parse decodes a game ID back into its UUID
func Parse(id string) (uuid.UUID, error) {
	if len(id) != Length {
		return uuid.Nil, fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	raw, err := encoding.DecodeString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game ID %q: %w", id, err)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game ID %q: %w", id, err)
	}
	return u, nil
}

// Validate checks that id is a well-formed game ID carrying a version 7 UUID
func Validate(id string) error {
	u, err := Parse(id)
	if err != nil {
		return err
	}
	if u.Version() != 7 {
		return fmt.Errorf("game ID %q is not a version 7 UUID (got %d)", id, u.Version())
	}
	return nil
}
