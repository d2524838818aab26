package sentence

import (
	"fmt"
	"strings"

	"github.com/w-h-a/docchat/chunker"
)

// sentenceChunker splits text into overlapping windows, snapping each window
// back to the last sentence terminator when one falls in the final 30% of
// the window so chunks avoid mid-sentence cuts.
type sentenceChunker struct {
	options chunker.Options
}

func (c *sentenceChunker) Chunk(text string) ([]string, error) {
	size := c.options.ChunkSize
	overlap := c.options.Overlap

	if size < 1 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk size %d, overlap %d", chunker.ErrInvalidConfiguration, size, overlap)
	}

	runes := []rune(text)

	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + size

		if end < len(runes) {
			// Snap to the last period, but only when it is late enough in
			// the window that we do not throw away too much content.
			if rel := lastPeriod(runes[start:end]); rel > int(float64(size)*0.7) {
				end = start + rel + 1
			}
		}

		chunkEnd := end
		if chunkEnd > len(runes) {
			chunkEnd = len(runes)
		}

		// A window of pure whitespace still yields an (empty) chunk; callers
		// filter these before embedding.
		chunks = append(chunks, strings.TrimSpace(string(runes[start:chunkEnd])))

		next := end - overlap
		if next >= len(runes) {
			break
		}
		if next <= start {
			return nil, fmt.Errorf("%w: cursor stuck at %d", chunker.ErrInvalidConfiguration, start)
		}
		start = next
	}

	return chunks, nil
}

func lastPeriod(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' {
			return i
		}
	}
	return -1
}

func NewChunker(opts ...chunker.Option) chunker.Chunker {
	options := chunker.NewOptions(opts...)

	return &sentenceChunker{
		options: options,
	}
}
