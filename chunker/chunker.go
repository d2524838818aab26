package chunker

import "errors"

// ErrInvalidConfiguration is returned when a chunker is configured so that
// the split can never make progress, e.g. an overlap that is not smaller
// than the chunk size.
var ErrInvalidConfiguration = errors.New("invalid chunker configuration")

type Chunker interface {
	Chunk(text string) ([]string, error)
}
