package main

import (
	"log"

	"github.com/alecthomas/kong"
	docchat "github.com/w-h-a/docchat"
	"github.com/w-h-a/docchat/config"
	"github.com/w-h-a/docchat/embedder"
	openaiembedder "github.com/w-h-a/docchat/embedder/openai"
	"github.com/w-h-a/docchat/generator"
	openaigenerator "github.com/w-h-a/docchat/generator/openai"
	"github.com/w-h-a/docchat/indexstore"
	"github.com/w-h-a/docchat/indexstore/azure"
	"github.com/w-h-a/docchat/prompt"
	"github.com/w-h-a/docchat/retriever"
	"github.com/w-h-a/docchat/retriever/hybrid"
	"github.com/w-h-a/docchat/server"
	httpserver "github.com/w-h-a/docchat/server/http"
	"go.uber.org/zap"
)

var (
	cfg struct {
		Address   string `help:"Address for the HTTP server to listen on" default:":8080"`
		IndexName string `help:"Search index to query" default:""`
	}
)

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	c, err := config.FromEnv(config.WithIndexName(cfg.IndexName))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Create embedder
	emb := openaiembedder.NewEmbedder(
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

	// Create retriever
	re := hybrid.NewRetriever(
		emb,
		store,
		retriever.WithTopK(c.MaxSearchResults),
		retriever.WithLogger(logger),
	)

	// Create generator
	gen := openaigenerator.NewGenerator(
		generator.WithApiKey(c.ModelAPIKey),
		generator.WithEndpoint(c.ModelEndpoint),
		generator.WithModel(c.ChatDeployment),
		generator.WithMaxTokens(c.MaxTokens),
	)

	orchestrator := docchat.New(
		re,
		gen,
		docchat.WithLogger(logger),
		docchat.WithSystemPrompt(prompt.Load(docchat.DefaultSystemPrompt)),
	)

	srv := httpserver.NewServer(
		orchestrator,
		c,
		server.WithAddress(cfg.Address),
		server.WithLogger(logger),
	)

	if err := srv.Run(); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
