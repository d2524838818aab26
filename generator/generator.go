package generator

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-style prompt.
type Message struct {
	Role    string
	Content string
}

// Completion is the generated text plus the provider's token accounting.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Generator interface {
	Generate(ctx context.Context, messages []Message) (*Completion, error)
}
