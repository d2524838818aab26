package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	docchat "github.com/w-h-a/docchat"
	"github.com/w-h-a/docchat/config"
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
	text string
	err  error
}

func (g *stubGenerator) Generate(ctx context.Context, messages []generator.Message) (*generator.Completion, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &generator.Completion{Text: g.text, PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func newTestServer(re retriever.Retriever, gen generator.Generator, cfg config.Config) http.Handler {
	orchestrator := docchat.New(re, gen)
	return NewServer(orchestrator, cfg).Handler()
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(&stubRetriever{}, &stubGenerator{}, config.Config{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
}

func TestChatReturnsAnswerAndSources(t *testing.T) {
	re := &stubRetriever{
		results: []indexstore.Result{
			{ID: "doc_0", Title: "handbook", Source: "handbook.md", Content: "remote fridays", Score: 0.9},
		},
	}
	handler := newTestServer(re, &stubGenerator{text: "Fridays are remote."}, config.Config{})

	payload := bytes.NewBufferString(`{"message": "when is remote day?"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", payload))

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp docchat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	require.Equal(t, "Fridays are remote.", rsp.Answer)
	require.Len(t, rsp.Sources, 1)
	require.Equal(t, "handbook", rsp.Sources[0].Title)
	require.Len(t, rsp.ContextUsed, 1)
	require.Equal(t, 15, rsp.Usage.TotalTokens)
}

func TestChatRejectsMissingMessage(t *testing.T) {
	handler := newTestServer(&stubRetriever{}, &stubGenerator{}, config.Config{})

	for _, payload := range []string{`{}`, `{"message": "   "}`, `not json`} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(payload)))
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)
	}
}

func TestChatDegradesInsteadOfErroring(t *testing.T) {
	re := &stubRetriever{
		results: []indexstore.Result{
			{ID: "doc_0", Title: "handbook", Source: "handbook.md", Content: "remote fridays", Score: 0.9},
		},
	}
	handler := newTestServer(re, &stubGenerator{err: errors.New("model is down")}, config.Config{})

	payload := bytes.NewBufferString(`{"message": "when is remote day?"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", payload))

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp docchat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	require.Contains(t, rsp.Answer, "I'm sorry")
	require.Len(t, rsp.Sources, 1)
}

func TestConfigOmitsSecrets(t *testing.T) {
	cfg := config.Config{
		ModelEndpoint:       "https://models.example.com",
		ModelAPIKey:         "model-secret",
		SearchEndpoint:      "https://search.example.com",
		SearchAPIKey:        "search-secret",
		IndexName:           "handbook",
		ChatDeployment:      "gpt-35-turbo",
		EmbeddingDeployment: "text-embedding-ada-002",
		MaxSearchResults:    5,
		MaxTokens:           1000,
	}
	handler := newTestServer(&stubRetriever{}, &stubGenerator{}, cfg)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "model-secret")
	require.NotContains(t, rec.Body.String(), "search-secret")

	var body configResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "handbook", body.Index)
	require.True(t, body.APIKeysConfigured)
}

func TestMiddlewareWraps(t *testing.T) {
	var seen []string
	tag := func(name string) func(h http.Handler) http.Handler {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	orchestrator := docchat.New(&stubRetriever{}, &stubGenerator{})
	handler := NewServer(orchestrator, config.Config{}, WithMiddleware(tag("outer"), tag("inner"))).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"outer", "inner"}, seen)
}
