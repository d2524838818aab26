package retriever

import (
	"context"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	TopK    int
	Logger  *zap.Logger
	Context context.Context
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:    5,
		Logger:  zap.NewNop(),
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type RetrieveOption func(*RetrieveOptions)

type RetrieveOptions struct {
	TopK int
}

// WithRetrieveTopK overrides the configured result count for one call.
func WithRetrieveTopK(topK int) RetrieveOption {
	return func(o *RetrieveOptions) {
		o.TopK = topK
	}
}

func NewRetrieveOptions(opts ...RetrieveOption) RetrieveOptions {
	options := RetrieveOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
