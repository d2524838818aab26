package keyvault

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/w-h-a/docchat/secrets"
)

const apiVersion = "7.4"

// keyVaultSecrets fetches secrets over the Azure Key Vault REST API using a
// pre-acquired bearer token.
type keyVaultSecrets struct {
	options secrets.Options
	client  *http.Client
}

type secretResponse struct {
	Value string `json:"value"`
}

func (s *keyVaultSecrets) GetSecret(ctx context.Context, name string) (string, error) {
	u := fmt.Sprintf("%s/secrets/%s?api-version=%s", s.options.Location, url.PathEscape(name), apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	if len(s.options.Token) > 0 {
		req.Header.Set("Authorization", "Bearer "+s.options.Token)
	}

	rsp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("key vault: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", secrets.ErrNotFound, name)
	}

	if rsp.StatusCode >= 300 {
		return "", fmt.Errorf("key vault: %s", rsp.Status)
	}

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}

	var secret secretResponse
	if err := json.Unmarshal(data, &secret); err != nil {
		return "", err
	}

	return secret.Value, nil
}

func NewSecrets(opts ...secrets.Option) secrets.Secrets {
	options := secrets.NewOptions(opts...)

	return &keyVaultSecrets{
		options: options,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}
