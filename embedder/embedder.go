package embedder

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned before any provider call is made so quota is not
// spent embedding meaningless text.
var ErrEmptyInput = errors.New("cannot embed empty input")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
