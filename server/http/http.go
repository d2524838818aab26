package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	docchat "github.com/w-h-a/docchat"
	"github.com/w-h-a/docchat/config"
	"github.com/w-h-a/docchat/server"
	"go.uber.org/zap"
)

// httpServer exposes the orchestrator over HTTP. Every request is handled
// as an independent chat turn; nothing is shared between requests except
// the read-only config and the stateless orchestrator.
type httpServer struct {
	options      server.Options
	orchestrator *docchat.Orchestrator
	config       config.Config
	handler      http.Handler
}

type chatRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type configResponse struct {
	ModelEndpoint       string `json:"model_endpoint"`
	SearchEndpoint      string `json:"search_endpoint"`
	Index               string `json:"index"`
	ChatDeployment      string `json:"chat_deployment"`
	EmbeddingDeployment string `json:"embedding_deployment"`
	MaxSearchResults    int    `json:"max_search_results"`
	MaxTokens           int    `json:"max_tokens"`
	APIKeysConfigured   bool   `json:"api_keys_configured"`
}

func (s *httpServer) Run() error {
	s.options.Logger.Info("starting http server", zap.String("address", s.options.Address))
	return http.ListenAndServe(s.options.Address, s.handler)
}

func (s *httpServer) Handler() http.Handler {
	return s.handler
}

func (s *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *httpServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Message)) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'message' in request body"})
		return
	}

	rsp := s.orchestrator.Chat(r.Context(), req.Message)

	writeJSON(w, http.StatusOK, rsp)
}

func (s *httpServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		ModelEndpoint:       s.config.ModelEndpoint,
		SearchEndpoint:      s.config.SearchEndpoint,
		Index:               s.config.IndexName,
		ChatDeployment:      s.config.ChatDeployment,
		EmbeddingDeployment: s.config.EmbeddingDeployment,
		MaxSearchResults:    s.config.MaxSearchResults,
		MaxTokens:           s.config.MaxTokens,
		APIKeysConfigured:   len(s.config.ModelAPIKey) > 0 && len(s.config.SearchAPIKey) > 0,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func NewServer(orchestrator *docchat.Orchestrator, cfg config.Config, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	s := &httpServer{
		options:      options,
		orchestrator: orchestrator,
		config:       cfg,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	var handler http.Handler = router
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s.handler = handler

	return s
}
