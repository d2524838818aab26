package docchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/indexstore"
	"go.uber.org/zap"
)

// DefaultSystemPrompt grounds the model in the retrieved context. Callers
// can override it with WithSystemPrompt.
const DefaultSystemPrompt = `You are a helpful AI assistant that answers questions based on the provided documentation context.
Use only the information from the context to answer questions.
If the context doesn't contain enough information to answer the question, say so clearly.
Provide clear, concise answers and cite the relevant document titles when possible.`

const apologyAnswer = "I'm sorry, I encountered an error while generating a response."

// generateAnswer asks the completion provider for an answer grounded in the
// retrieved chunks. Provider failures never escape: the caller gets a fixed
// apology and the error goes to the log.
func (o *Orchestrator) generateAnswer(ctx context.Context, question string, contextDocs []indexstore.Result) (string, Usage) {
	messages := []generator.Message{
		{Role: generator.RoleSystem, Content: o.options.SystemPrompt},
		{Role: generator.RoleUser, Content: buildUserTurn(question, contextDocs)},
	}

	completion, err := o.generator.Generate(ctx, messages)
	if err != nil {
		o.options.Logger.Error("failed to generate response, degrading to apology",
			zap.Error(err),
		)
		return apologyAnswer, Usage{}
	}

	return completion.Text, Usage{
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		TotalTokens:      completion.TotalTokens,
	}
}

func buildUserTurn(question string, contextDocs []indexstore.Result) string {
	blocks := make([]string, 0, len(contextDocs))
	for _, doc := range contextDocs {
		blocks = append(blocks, fmt.Sprintf("Document: %s\nContent: %s", doc.Title, doc.Content))
	}

	return fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s\n\nPlease answer the question based on the provided context.",
		strings.Join(blocks, "\n\n"),
		question,
	)
}
