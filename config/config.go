package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/w-h-a/docchat/secrets"
)

// ErrMissingSetting is returned when a required setting is absent. It is
// fatal at startup; nothing recovers from a half-configured pipeline.
var ErrMissingSetting = errors.New("missing required setting")

const (
	DefaultIndexName           = "documents"
	DefaultChatDeployment      = "gpt-35-turbo"
	DefaultEmbeddingDeployment = "text-embedding-ada-002"
	DefaultMaxSearchResults    = 5
	DefaultMaxTokens           = 1000
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
)

// Config is the immutable settings bundle for the whole pipeline. It is
// constructed once at startup and passed by value into every component;
// there is no ambient global configuration.
type Config struct {
	ModelEndpoint  string
	ModelAPIKey    string
	SearchEndpoint string
	SearchAPIKey   string

	IndexName           string
	ChatDeployment      string
	EmbeddingDeployment string
	MaxSearchResults    int
	MaxTokens           int
	ChunkSize           int
	ChunkOverlap        int
}

type Option func(*Config)

// WithIndexName selects a non-default index at construction time. The value
// is fixed before validation; Config is never mutated afterwards.
func WithIndexName(name string) Option {
	return func(c *Config) {
		if len(name) > 0 {
			c.IndexName = name
		}
	}
}

func WithChunking(size, overlap int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
		if overlap >= 0 {
			c.ChunkOverlap = overlap
		}
	}
}

// FromEnv builds a Config from the process environment, loading a .env file
// first when one is present.
func FromEnv(opts ...Option) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ModelEndpoint:       os.Getenv("AZURE_OPENAI_ENDPOINT"),
		ModelAPIKey:         os.Getenv("AZURE_OPENAI_API_KEY"),
		SearchEndpoint:      os.Getenv("AZURE_SEARCH_ENDPOINT"),
		SearchAPIKey:        os.Getenv("AZURE_SEARCH_API_KEY"),
		IndexName:           getEnv("AZURE_SEARCH_INDEX", DefaultIndexName),
		ChatDeployment:      getEnv("AZURE_OPENAI_DEPLOYMENT", DefaultChatDeployment),
		EmbeddingDeployment: getEnv("AZURE_EMBEDDING_DEPLOYMENT", DefaultEmbeddingDeployment),
		MaxSearchResults:    getEnvAsInt("MAX_SEARCH_RESULTS", DefaultMaxSearchResults),
		MaxTokens:           getEnvAsInt("MAX_TOKENS", DefaultMaxTokens),
		ChunkSize:           getEnvAsInt("CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", DefaultChunkOverlap),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.validate()
}

// FromSecrets builds a Config with API keys pulled from a secret store. The
// endpoints are not secret and are passed in directly. The result is the
// same Config type as FromEnv produces; downstream components never know the
// provenance.
func FromSecrets(ctx context.Context, store secrets.Secrets, modelEndpoint string, searchEndpoint string, opts ...Option) (Config, error) {
	modelKey, err := store.GetSecret(ctx, "openai-api-key")
	if err != nil {
		return Config{}, fmt.Errorf("retrieve openai-api-key: %w", err)
	}

	searchKey, err := store.GetSecret(ctx, "search-api-key")
	if err != nil {
		return Config{}, fmt.Errorf("retrieve search-api-key: %w", err)
	}

	cfg := Config{
		ModelEndpoint:       modelEndpoint,
		ModelAPIKey:         modelKey,
		SearchEndpoint:      searchEndpoint,
		SearchAPIKey:        searchKey,
		IndexName:           DefaultIndexName,
		ChatDeployment:      DefaultChatDeployment,
		EmbeddingDeployment: DefaultEmbeddingDeployment,
		MaxSearchResults:    DefaultMaxSearchResults,
		MaxTokens:           DefaultMaxTokens,
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	required := map[string]string{
		"model endpoint":  c.ModelEndpoint,
		"model api key":   c.ModelAPIKey,
		"search endpoint": c.SearchEndpoint,
		"search api key":  c.SearchAPIKey,
	}

	for name, value := range required {
		if len(value) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingSetting, name)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && len(value) > 0 {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
