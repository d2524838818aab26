package docchat

import (
	"context"

	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/retriever"
	"go.uber.org/zap"
)

const noResultsAnswer = "I couldn't find any relevant information in the documentation to answer your question."

// Orchestrator runs one full chat turn: retrieve relevant chunks, then
// either short-circuit with a no-results answer or generate a grounded
// answer. It holds no state between turns; conversation history is the
// caller's concern.
type Orchestrator struct {
	options   Options
	retriever retriever.Retriever
	generator generator.Generator
}

// Chat answers a question from the indexed corpus. It never returns an
// error: every failure mode inside the pipeline degrades into a well-formed
// Response.
func (o *Orchestrator) Chat(ctx context.Context, question string) Response {
	o.options.Logger.Info("processing question", zap.String("question", question))

	results := o.retriever.Retrieve(ctx, question)

	if len(results) == 0 {
		return Response{
			Answer:      noResultsAnswer,
			Sources:     []Source{},
			ContextUsed: []string{},
		}
	}

	answer, usage := o.generateAnswer(ctx, question, results)

	sources := make([]Source, 0, len(results))
	contextUsed := make([]string, 0, len(results))
	for _, res := range results {
		sources = append(sources, Source{
			Title:  res.Title,
			Source: res.Source,
			Score:  res.Score,
		})
		contextUsed = append(contextUsed, preview(res.Content))
	}

	return Response{
		Answer:      answer,
		Sources:     sources,
		ContextUsed: contextUsed,
		Usage:       usage,
	}
}

func New(re retriever.Retriever, gen generator.Generator, opts ...Option) *Orchestrator {
	options := NewOptions(opts...)

	return &Orchestrator{
		options:   options,
		retriever: re,
		generator: gen,
	}
}
