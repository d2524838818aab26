package indexstore

import (
	"context"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Index      string
	Dimensions int
	Logger     *zap.Logger
	Context    context.Context
}

func WithLocation(location string) Option {
	return func(o *Options) {
		o.Location = location
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithIndex(index string) Option {
	return func(o *Options) {
		o.Index = index
	}
}

func WithDimensions(dimensions int) Option {
	return func(o *Options) {
		o.Dimensions = dimensions
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Index:      "documents",
		Dimensions: 1536,
		Logger:     zap.NewNop(),
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
