package docchat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/indexstore"
	"github.com/w-h-a/docchat/retriever"
)

type stubRetriever struct {
	results []indexstore.Result
}

func (r *stubRetriever) Retrieve(ctx context.Context, question string, opts ...retriever.RetrieveOption) []indexstore.Result {
	return r.results
}

type stubGenerator struct {
	completion *generator.Completion
	err        error
	lastPrompt []generator.Message
}

func (g *stubGenerator) Generate(ctx context.Context, messages []generator.Message) (*generator.Completion, error) {
	g.lastPrompt = messages
	if g.err != nil {
		return nil, g.err
	}
	return g.completion, nil
}

func TestChatNoResultsShortCircuit(t *testing.T) {
	gen := &stubGenerator{completion: &generator.Completion{Text: "should not be called"}}

	o := New(&stubRetriever{results: []indexstore.Result{}}, gen)

	rsp := o.Chat(context.Background(), "anything?")

	assert.Equal(t, noResultsAnswer, rsp.Answer)
	assert.NotNil(t, rsp.Sources)
	assert.Empty(t, rsp.Sources)
	assert.NotNil(t, rsp.ContextUsed)
	assert.Empty(t, rsp.ContextUsed)
	assert.Nil(t, gen.lastPrompt, "generator must not run without context")
}

func TestChatPreservesRetrievalOrder(t *testing.T) {
	// Scores arrive unsorted on purpose: the orchestrator trusts the
	// provider's ranking and must not re-sort.
	results := []indexstore.Result{
		{ID: "doc_2", Title: "b", Source: "b.md", Content: "bbb", Score: 1.0},
		{ID: "doc_0", Title: "a", Source: "a.md", Content: "aaa", Score: 3.0},
		{ID: "doc_1", Title: "c", Source: "c.md", Content: "ccc", Score: 2.0},
	}

	o := New(
		&stubRetriever{results: results},
		&stubGenerator{completion: &generator.Completion{Text: "answer"}},
	)

	rsp := o.Chat(context.Background(), "q")

	require.Len(t, rsp.Sources, 3)
	assert.Equal(t, []Source{
		{Title: "b", Source: "b.md", Score: 1.0},
		{Title: "a", Source: "a.md", Score: 3.0},
		{Title: "c", Source: "c.md", Score: 2.0},
	}, rsp.Sources)
	assert.Equal(t, []string{"bbb", "aaa", "ccc"}, rsp.ContextUsed)
}

func TestChatContextTruncation(t *testing.T) {
	long := strings.Repeat("x", 450)
	exact := strings.Repeat("y", 200)

	o := New(
		&stubRetriever{results: []indexstore.Result{
			{Title: "long", Content: long},
			{Title: "exact", Content: exact},
			{Title: "short", Content: "short"},
		}},
		&stubGenerator{completion: &generator.Completion{Text: "answer"}},
	)

	rsp := o.Chat(context.Background(), "q")

	require.Len(t, rsp.ContextUsed, 3)
	assert.Equal(t, strings.Repeat("x", 200)+"...", rsp.ContextUsed[0])
	assert.Equal(t, exact, rsp.ContextUsed[1], "no marker when nothing was cut")
	assert.Equal(t, "short", rsp.ContextUsed[2])
}

func TestChatGeneratorFailureDegrades(t *testing.T) {
	o := New(
		&stubRetriever{results: []indexstore.Result{
			{Title: "a", Source: "a.md", Content: "aaa", Score: 1.0},
		}},
		&stubGenerator{err: errors.New("quota exceeded")},
	)

	rsp := o.Chat(context.Background(), "q")

	assert.Equal(t, apologyAnswer, rsp.Answer)
	// Sources still reflect what was retrieved even when generation fails.
	require.Len(t, rsp.Sources, 1)
	assert.Equal(t, "a", rsp.Sources[0].Title)
	assert.Equal(t, Usage{}, rsp.Usage)
}

func TestChatPromptGrounding(t *testing.T) {
	gen := &stubGenerator{completion: &generator.Completion{
		Text:             "grounded answer",
		PromptTokens:     12,
		CompletionTokens: 7,
		TotalTokens:      19,
	}}

	o := New(
		&stubRetriever{results: []indexstore.Result{
			{Title: "deploy guide", Content: "run make deploy"},
			{Title: "setup guide", Content: "install the toolchain"},
		}},
		gen,
	)

	rsp := o.Chat(context.Background(), "how do I deploy?")

	assert.Equal(t, "grounded answer", rsp.Answer)
	assert.Equal(t, Usage{PromptTokens: 12, CompletionTokens: 7, TotalTokens: 19}, rsp.Usage)

	require.Len(t, gen.lastPrompt, 2)
	assert.Equal(t, generator.RoleSystem, gen.lastPrompt[0].Role)
	assert.Contains(t, gen.lastPrompt[0].Content, "Use only the information from the context")

	user := gen.lastPrompt[1]
	assert.Equal(t, generator.RoleUser, user.Role)
	assert.Contains(t, user.Content, "Document: deploy guide\nContent: run make deploy")
	assert.Contains(t, user.Content, "Document: setup guide\nContent: install the toolchain")
	assert.Contains(t, user.Content, "Question: how do I deploy?")

	deployIdx := strings.Index(user.Content, "deploy guide")
	setupIdx := strings.Index(user.Content, "setup guide")
	assert.Less(t, deployIdx, setupIdx, "context blocks follow ranking order")
}

func TestChatCustomSystemPrompt(t *testing.T) {
	gen := &stubGenerator{completion: &generator.Completion{Text: "aye"}}

	o := New(
		&stubRetriever{results: []indexstore.Result{
			{Title: "a", Content: "aaa"},
		}},
		gen,
		WithSystemPrompt("Answer like a pirate."),
	)

	o.Chat(context.Background(), "q")

	require.Len(t, gen.lastPrompt, 2)
	assert.Equal(t, "Answer like a pirate.", gen.lastPrompt[0].Content)
}
