package gameid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
	assert.Equal(t, strings.ToLower(id), id)
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(2 * time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestGeneratorWithReader(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0x42}, 64)))

	id, err := gen.Generate()
	require.NoError(t, err)
	assert.NoError(t, Validate(id))
}

func TestGeneratorExhaustedReader(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(nil))

	_, err := gen.Generate()
	assert.Error(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	id := Generate()
	u, err := Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 7, int(u.Version()))
	assert.Equal(t, id, encoding.EncodeToString(u[:]))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "generated", id: Generate()},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "invalid character", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
		{name: "uppercase not allowed", id: "01H5N0ET5Q6MT3V7MS1234ABCD", wantErr: true},
		{name: "all zeros is not v7", id: strings.Repeat("0", Length), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, alphabet, 32)

	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character in alphabet: %c", char)
		seen[char] = true
	}
	for _, char := range "ilou" {
		assert.False(t, strings.ContainsRune(alphabet, char), "alphabet should not contain %c", char)
	}
}
