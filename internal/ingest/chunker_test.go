package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyContent(t *testing.T) {
	assert.Nil(t, Chunk("", 100, 10))
	assert.Nil(t, Chunk("   \n\t  ", 100, 10))
}

func TestChunkShortContentSingleChunk(t *testing.T) {
	chunks := Chunk("  short document  ", 100, 10)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestChunkSplitsWithOverlap(t *testing.T) {
	content := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 5)

	chunks := Chunk(content, 10, 2)

	// Step is 8 runes: [0,10), [8,18), [16,25)
	require.Len(t, chunks, 3)
	assert.Equal(t, "aaaaaaaaaa", chunks[0])
	assert.Equal(t, "aabbbbbbbb", chunks[1])
	assert.Equal(t, "bbbbccccc", chunks[2])
}

func TestChunkNoOverlap(t *testing.T) {
	chunks := Chunk("abcdefghij", 4, 0)

	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks)
}

func TestChunkCountsRunesNotBytes(t *testing.T) {
	// Multibyte runes must not be split mid-character.
	content := strings.Repeat("日", 10)

	chunks := Chunk(content, 4, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("日", 4), chunks[0])
	assert.Equal(t, strings.Repeat("日", 4), chunks[1])
	assert.Equal(t, strings.Repeat("日", 2), chunks[2])
}

func TestChunkDropsWhitespaceOnlyChunks(t *testing.T) {
	content := "abcd" + strings.Repeat(" ", 8) + "efgh"

	chunks := Chunk(content, 4, 0)

	assert.Equal(t, []string{"abcd", "efgh"}, chunks)
}
