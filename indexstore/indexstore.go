package indexstore

import "context"

// BatchSize caps how many documents are sent per upsert call so provider
// payload limits are respected.
const BatchSize = 100

// Document is one retrievable chunk of a source file.
type Document struct {
	ID            string
	Title         string
	Content       string
	Source        string
	ChunkID       int
	ContentVector []float32
}

// Result is a scored document returned by a query. Higher scores are more
// relevant; the ordering is the provider's own fusion of keyword and vector
// ranking and is never re-sorted by this system.
type Result struct {
	ID      string
	Content string
	Title   string
	Source  string
	Score   float64
}

type Store interface {
	// Upsert writes documents in batches of BatchSize. A failed batch aborts
	// the whole call; the returned error names the failing batch.
	Upsert(ctx context.Context, docs []Document) error

	// Query runs a hybrid search with both the raw text and its vector and
	// returns up to topK results ranked by descending score.
	Query(ctx context.Context, text string, vector []float32, topK int) ([]Result, error)

	// EnsureIndex provisions the index to match the Document shape. It is
	// idempotent; the last call wins.
	EnsureIndex(ctx context.Context) error
}
