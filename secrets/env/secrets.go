package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/w-h-a/docchat/secrets"
)

// envSecrets resolves secret names against environment variables, mapping
// "openai-api-key" to OPENAI_API_KEY.
type envSecrets struct {
	options secrets.Options
}

func (s *envSecrets) GetSecret(ctx context.Context, name string) (string, error) {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))

	value, ok := os.LookupEnv(key)
	if !ok || len(value) == 0 {
		return "", fmt.Errorf("%w: %s (env %s)", secrets.ErrNotFound, name, key)
	}

	return value, nil
}

func NewSecrets(opts ...secrets.Option) secrets.Secrets {
	options := secrets.NewOptions(opts...)

	return &envSecrets{
		options: options,
	}
}
