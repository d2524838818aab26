package docchat

import (
	"context"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	SystemPrompt string
	Logger       *zap.Logger
	Context      context.Context
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSystemPrompt replaces the default grounding instructions. Empty
// values are ignored so callers can pass through unset configuration.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		if len(prompt) > 0 {
			o.SystemPrompt = prompt
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		SystemPrompt: DefaultSystemPrompt,
		Logger:       zap.NewNop(),
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
