package sentence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/docchat/chunker"
)

func TestChunkShortText(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(20))

	chunks, err := c.Chunk("  hello world  ")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkEmptyText(t *testing.T) {
	c := NewChunker()

	chunks, err := c.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkSentenceBoundarySnap(t *testing.T) {
	// Period at index 85 and no period between 86 and 100: the first chunk
	// must end right after the period, not at the raw window boundary.
	text := strings.Repeat("a", 85) + "." + strings.Repeat("b", 120)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(0))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, text[:86], chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "b"))
}

func TestChunkNoSnapWhenPeriodTooEarly(t *testing.T) {
	// Period at index 40 is below the 70% threshold, so the window is kept.
	text := strings.Repeat("a", 40) + "." + strings.Repeat("b", 120)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(0))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	assert.Equal(t, text[:100], chunks[0])
}

func TestChunkOverlapWindows(t *testing.T) {
	// No periods, so every chunk is an exact window advancing by size-overlap.
	text := strings.Repeat("x", 250)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(20))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.True(t, len(chunks) >= 2)
	assert.Equal(t, strings.Repeat("x", 100), chunks[0])
	assert.Equal(t, strings.Repeat("x", 100), chunks[1])
}

func TestChunkCoverage(t *testing.T) {
	texts := []string{
		"The quick brown fox jumps over the lazy dog. " + strings.Repeat("Again and again. ", 40),
		strings.Repeat("no terminator here ", 30),
		"one sentence.",
	}

	c := NewChunker(chunker.WithChunkSize(64), chunker.WithOverlap(16))

	for _, text := range texts {
		chunks, err := c.Chunk(text)
		require.NoError(t, err)

		// Every word of the input must appear in at least one chunk.
		joined := strings.Join(chunks, " ")
		for _, word := range strings.Fields(text) {
			assert.Contains(t, joined, word)
		}
	}
}

func TestChunkTermination(t *testing.T) {
	text := strings.Repeat("a", 10_000)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(99))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	// ceil(L / (size - overlap)) is the upper bound on iterations.
	assert.LessOrEqual(t, len(chunks), 10_000)
}

func TestChunkEmptyWindowStillEmitted(t *testing.T) {
	text := strings.Repeat("a", 100) + strings.Repeat(" ", 100) + strings.Repeat("b", 10)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(0))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "", chunks[1])
}

func TestChunkInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		size int
		over int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunker(chunker.WithChunkSize(tt.size), chunker.WithOverlap(tt.over))

			_, err := c.Chunk("some text that would otherwise be chunked")
			assert.ErrorIs(t, err, chunker.ErrInvalidConfiguration)
		})
	}
}

func TestChunkCursorStuckFailsFast(t *testing.T) {
	// Overlap is valid, but a snapped boundary would move the cursor backwards.
	// The chunker must error out instead of looping forever.
	text := strings.Repeat("a", 71) + "." + strings.Repeat("b", 200)

	c := NewChunker(chunker.WithChunkSize(100), chunker.WithOverlap(90))

	_, err := c.Chunk(text)
	assert.ErrorIs(t, err, chunker.ErrInvalidConfiguration)
}
