package chunker

import "context"

type Option func(*Options)

type Options struct {
	ChunkSize int
	Overlap   int
	Context   context.Context
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.Overlap = overlap
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ChunkSize: 1000,
		Overlap:   200,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
