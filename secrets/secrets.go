package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the named secret does not exist.
var ErrNotFound = errors.New("secret not found")

type Secrets interface {
	GetSecret(ctx context.Context, name string) (string, error)
}
