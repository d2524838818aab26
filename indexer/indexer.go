package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/w-h-a/docchat/chunker"
	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/indexstore"
	"go.uber.org/zap"
)

// Indexer drives the batch ingestion pipeline: read files, chunk them,
// embed each chunk, and hand the accumulated documents to the store.
// Failures are isolated to the smallest unit — a bad chunk skips the chunk,
// a bad file skips the file — so one broken input never aborts a corpus run.
// Only the final upsert is fatal for the batch.
type Indexer struct {
	options  Options
	chunker  chunker.Chunker
	embedder embedder.Embedder
	store    indexstore.Store
}

// Index processes the given files and returns how many chunks were indexed.
func (i *Indexer) Index(ctx context.Context, paths []string) (int, error) {
	var docs []indexstore.Document

	docID := 0

	for _, path := range paths {
		i.options.Logger.Info("processing file", zap.String("path", path))

		content, ok := i.readFile(path)
		if !ok {
			continue
		}

		chunks, err := i.chunker.Chunk(content)
		if err != nil {
			// A chunker that cannot make progress is a configuration
			// problem, not an input problem. Fail the run.
			return 0, fmt.Errorf("chunk %s: %w", path, err)
		}

		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		chunkID := 0
		for _, chunk := range chunks {
			// Windows of pure whitespace chunk to nothing; embedding them
			// would waste a provider call.
			if len(chunk) == 0 {
				continue
			}

			vector, err := i.embedder.Embed(ctx, chunk)
			if err != nil {
				i.options.Logger.Warn("failed to embed chunk, skipping",
					zap.String("path", path),
					zap.Int("chunk_id", chunkID),
					zap.Error(err),
				)
				continue
			}

			docs = append(docs, indexstore.Document{
				ID:            fmt.Sprintf("doc_%d", docID),
				Title:         title,
				Content:       chunk,
				Source:        path,
				ChunkID:       chunkID,
				ContentVector: vector,
			})

			docID++
			chunkID++
		}

		i.options.Logger.Info("processed file",
			zap.String("path", path),
			zap.Int("chunks", chunkID),
		)
	}

	if len(docs) == 0 {
		i.options.Logger.Warn("no documents were successfully processed")
		return 0, nil
	}

	if err := i.store.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("index documents: %w", err)
	}

	return len(docs), nil
}

func (i *Indexer) readFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		i.options.Logger.Warn("failed to read file, skipping",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", false
	}

	if !utf8.Valid(data) {
		i.options.Logger.Warn("file is not valid UTF-8, skipping",
			zap.String("path", path),
		)
		return "", false
	}

	return string(data), true
}

func New(ch chunker.Chunker, emb embedder.Embedder, store indexstore.Store, opts ...Option) *Indexer {
	options := NewOptions(opts...)

	return &Indexer{
		options:  options,
		chunker:  ch,
		embedder: emb,
		store:    store,
	}
}
