package indexer

import (
	"context"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	Logger  *zap.Logger
	Context context.Context
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Logger:  zap.NewNop(),
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
