package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

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
	"github.com/w-h-a/docchat/secrets"
	"github.com/w-h-a/docchat/secrets/keyvault"
	"github.com/w-h-a/docchat/session"
	"go.uber.org/zap"
)

var (
	cfg struct {
		// Single-shot mode
		Question string `help:"Ask one question, print the answer, and exit" default:""`

		// Index config
		IndexName string `help:"Search index to query" default:""`
		TopK      int    `help:"Number of chunks to retrieve per question" default:"0"`

		// Secrets config
		KeyVaultURL    string `help:"Key vault to read API keys from instead of the environment" default:""`
		KeyVaultToken  string `help:"Bearer token for the key vault" env:"AZURE_KEYVAULT_TOKEN" default:""`
		OpenAIEndpoint string `help:"Model endpoint, required with --key-vault-url" default:""`
		SearchEndpoint string `help:"Search endpoint, required with --key-vault-url" default:""`

		Debug bool `help:"Log pipeline internals to stderr" default:"false"`
	}
)

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	logger := zap.NewNop()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	c, err := loadConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	topK := c.MaxSearchResults
	if cfg.TopK > 0 {
		topK = cfg.TopK
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
		retriever.WithTopK(topK),
		retriever.WithLogger(logger),
	)

	// Create generator
	gen := openaigenerator.NewGenerator(
		generator.WithApiKey(c.ModelAPIKey),
		generator.WithEndpoint(c.ModelEndpoint),
		generator.WithModel(c.ChatDeployment),
		generator.WithMaxTokens(c.MaxTokens),
	)

	systemPrompt := prompt.Load(docchat.DefaultSystemPrompt)

	orchestrator := docchat.New(
		re,
		gen,
		docchat.WithLogger(logger),
		docchat.WithSystemPrompt(systemPrompt),
	)

	if len(cfg.Question) > 0 {
		printResponse(orchestrator.Chat(ctx, cfg.Question))
		return
	}

	repl(ctx, orchestrator, c, session.NewConversation(systemPrompt))
}

func loadConfig(ctx context.Context) (config.Config, error) {
	if len(cfg.KeyVaultURL) > 0 {
		vault := keyvault.NewSecrets(
			secrets.WithLocation(cfg.KeyVaultURL),
			secrets.WithToken(cfg.KeyVaultToken),
		)
		return config.FromSecrets(
			ctx,
			vault,
			cfg.OpenAIEndpoint,
			cfg.SearchEndpoint,
			config.WithIndexName(cfg.IndexName),
		)
	}

	return config.FromEnv(config.WithIndexName(cfg.IndexName))
}

func repl(ctx context.Context, orchestrator *docchat.Orchestrator, c config.Config, conversation *session.Conversation) {
	fmt.Println("--- Documentation Chat ---")
	fmt.Printf("Session: %s\n", conversation.ID())
	fmt.Println("Ask a question, or type 'help' for commands.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return
		case "help":
			printHelp()
			continue
		case "config":
			printConfig(c)
			continue
		case "clear", "reset":
			conversation.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		case "history":
			printHistory(conversation)
			continue
		}

		rsp := orchestrator.Chat(ctx, line)

		conversation.Append(generator.RoleUser, line)
		conversation.Append(generator.RoleAssistant, rsp.Answer)

		printResponse(rsp)
	}
}

func printResponse(rsp docchat.Response) {
	fmt.Printf("\nAssistant: %s\n", rsp.Answer)

	if len(rsp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range rsp.Sources {
			fmt.Printf("  - %s (%s, score %.3f)\n", src.Title, src.Source, src.Score)
		}
	}

	if rsp.Usage.TotalTokens > 0 {
		fmt.Printf("\nTokens: %d prompt + %d completion = %d total\n",
			rsp.Usage.PromptTokens, rsp.Usage.CompletionTokens, rsp.Usage.TotalTokens)
	}

	fmt.Println()
}

func printHelp() {
	fmt.Println(`Commands:
  help     show this message
  config   show the active (non-sensitive) configuration
  history  show the conversation so far
  clear    reset the conversation history
  reset    same as clear
  quit     exit the chat`)
}

func printConfig(c config.Config) {
	fmt.Printf(`Configuration:
  model endpoint:        %s
  search endpoint:       %s
  index:                 %s
  chat deployment:       %s
  embedding deployment:  %s
  max search results:    %d
  max tokens:            %d
  api keys configured:   %t
`,
		c.ModelEndpoint,
		c.SearchEndpoint,
		c.IndexName,
		c.ChatDeployment,
		c.EmbeddingDeployment,
		c.MaxSearchResults,
		c.MaxTokens,
		len(c.ModelAPIKey) > 0 && len(c.SearchAPIKey) > 0,
	)
}

func printHistory(conversation *session.Conversation) {
	history := conversation.History()
	if len(history) <= 1 {
		fmt.Println("No conversation yet.")
		return
	}

	for _, msg := range history {
		if msg.Role == generator.RoleSystem {
			continue
		}
		fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
	}
}
