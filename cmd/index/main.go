package main

import (
	"context"
	"log"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/docchat/chunker"
	"github.com/w-h-a/docchat/chunker/sentence"
	"github.com/w-h-a/docchat/config"
	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/embedder/openai"
	"github.com/w-h-a/docchat/indexer"
	"github.com/w-h-a/docchat/indexstore"
	"github.com/w-h-a/docchat/indexstore/azure"
	"go.uber.org/zap"
)

var (
	cfg struct {
		// Input selection
		Directory string   `help:"Directory to index recursively" default:""`
		Files     []string `help:"Explicit files to index" default:""`

		Extensions []string `help:"File extensions to pick up when walking a directory" default:".txt,.md,.rst"`

		// Index config
		IndexName     string `help:"Search index to write into" default:""`
		RecreateIndex bool   `help:"Create or update the index schema before indexing" default:"false"`

		// Chunking config
		ChunkSize    int `help:"Chunk window size in characters" default:"0"`
		ChunkOverlap int `help:"Overlap between consecutive chunks in characters" default:"-1"`
	}
)

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	c, err := config.FromEnv(
		config.WithIndexName(cfg.IndexName),
		config.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
	)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	paths := cfg.Files
	if len(cfg.Directory) > 0 {
		discovered, err := indexer.Discover(cfg.Directory, cfg.Extensions)
		if err != nil {
			log.Fatalf("failed to walk %s: %v", cfg.Directory, err)
		}
		paths = append(paths, discovered...)
	}

	if len(paths) == 0 {
		log.Fatal("nothing to index: pass --directory or --files")
	}

	// Create chunker
	ch := sentence.NewChunker(
		chunker.WithChunkSize(c.ChunkSize),
		chunker.WithOverlap(c.ChunkOverlap),
	)

	// Create embedder
	emb := openai.NewEmbedder(
		embedder.WithApiKey(c.ModelAPIKey),
		embedder.WithEndpoint(c.ModelEndpoint),
		embedder.WithModel(c.EmbeddingDeployment),
	)

	// Create index store
	store := azure.NewStore(
		indexstore.WithLocation(c.SearchEndpoint),
		indexstore.WithApiKey(c.SearchAPIKey),
		indexstore.WithIndex(c.IndexName),
		indexstore.WithLogger(logger),
	)

	// A custom index name usually means the index does not exist yet.
	if cfg.RecreateIndex || c.IndexName != config.DefaultIndexName {
		if err := store.EnsureIndex(ctx); err != nil {
			log.Fatalf("failed to ensure index %s: %v", c.IndexName, err)
		}
	}

	idx := indexer.New(ch, emb, store, indexer.WithLogger(logger))

	count, err := idx.Index(ctx, paths)
	if err != nil {
		log.Fatalf("indexing failed: %v", err)
	}

	logger.Info("indexing complete",
		zap.Int("files", len(paths)),
		zap.Int("chunks", count),
		zap.String("index", c.IndexName),
	)
}
