package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/w-h-a/docchat/indexstore"
	"go.uber.org/zap"
)

const apiVersion = "2023-11-01"

// azureStore talks to the Azure AI Search REST API. It supports hybrid
// queries: the raw search text and the query vector travel in the same
// request and the service fuses the two rankings.
type azureStore struct {
	options indexstore.Options
	client  *http.Client
}

func (s *azureStore) Upsert(ctx context.Context, docs []indexstore.Document) error {
	for batch := 0; batch*indexstore.BatchSize < len(docs); batch++ {
		lo := batch * indexstore.BatchSize
		hi := lo + indexstore.BatchSize
		if hi > len(docs) {
			hi = len(docs)
		}

		actions := make([]indexAction, 0, hi-lo)
		for _, doc := range docs[lo:hi] {
			actions = append(actions, indexAction{
				Action:        "mergeOrUpload",
				ID:            doc.ID,
				Title:         doc.Title,
				Content:       doc.Content,
				Source:        doc.Source,
				ChunkID:       doc.ChunkID,
				ContentVector: doc.ContentVector,
			})
		}

		req := indexBatch{Value: actions}

		var rsp indexBatchResult

		path := fmt.Sprintf("/indexes/%s/docs/search.index", url.PathEscape(s.options.Index))

		if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
			return fmt.Errorf("upsert batch %d: %w", batch, err)
		}

		for _, item := range rsp.Value {
			if !item.Status {
				return fmt.Errorf("upsert batch %d: document %s: %s", batch, item.Key, item.ErrorMessage)
			}
		}

		s.options.Logger.Info("indexed batch",
			zap.Int("batch", batch),
			zap.Int("documents", hi-lo),
		)
	}

	return nil
}

func (s *azureStore) Query(ctx context.Context, text string, vector []float32, topK int) ([]indexstore.Result, error) {
	if topK < 1 {
		return nil, nil
	}

	req := searchRequest{
		Search: text,
		VectorQueries: []vectorQuery{
			{
				Kind:   "vector",
				Vector: vector,
				K:      topK,
				Fields: "contentVector",
			},
		},
		Select: "id,content,title,source",
		Top:    topK,
	}

	var rsp searchResponse

	path := fmt.Sprintf("/indexes/%s/docs/search", url.PathEscape(s.options.Index))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	results := make([]indexstore.Result, 0, len(rsp.Value))

	for _, hit := range rsp.Value {
		results = append(results, indexstore.Result{
			ID:      hit.ID,
			Content: hit.Content,
			Title:   hit.Title,
			Source:  hit.Source,
			Score:   hit.Score,
		})
	}

	return results, nil
}

func (s *azureStore) EnsureIndex(ctx context.Context) error {
	schema := indexSchema{
		Name: s.options.Index,
		Fields: []indexField{
			{Name: "id", Type: "Edm.String", Key: true, Filterable: true},
			{Name: "title", Type: "Edm.String", Searchable: true},
			{Name: "content", Type: "Edm.String", Searchable: true},
			{Name: "source", Type: "Edm.String", Filterable: true},
			{Name: "chunk_id", Type: "Edm.Int32"},
			{
				Name:       "contentVector",
				Type:       "Collection(Edm.Single)",
				Searchable: true,
				Dimensions: s.options.Dimensions,
				Profile:    "default",
			},
		},
		VectorSearch: &vectorSearch{
			Algorithms: []vectorAlgorithm{{Name: "default", Kind: "hnsw"}},
			Profiles:   []vectorProfile{{Name: "default", Algorithm: "default"}},
		},
		Semantic: &semanticSearch{
			Configurations: []semanticConfiguration{
				{
					Name: "default",
					PrioritizedFields: prioritizedFields{
						TitleField:    semanticField{FieldName: "title"},
						ContentFields: []semanticField{{FieldName: "content"}},
					},
				},
			},
		},
	}

	path := fmt.Sprintf("/indexes/%s", url.PathEscape(s.options.Index))

	if err := s.do(ctx, http.MethodPut, path, schema, nil); err != nil {
		return fmt.Errorf("ensure index %s: %w", s.options.Index, err)
	}

	s.options.Logger.Info("index created or updated", zap.String("index", s.options.Index))

	return nil
}

func (s *azureStore) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := fmt.Sprintf("%s%s?api-version=%s", s.options.Location, path, apiVersion)

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if len(s.options.ApiKey) > 0 {
		httpReq.Header.Set("api-key", s.options.ApiKey)
	}

	httpRsp, err := s.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpRsp.Body.Close()

	data, err := io.ReadAll(httpRsp.Body)
	if err != nil {
		return err
	}

	if httpRsp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && len(apiErr.Error.Message) > 0 {
			return fmt.Errorf("search service: %s: %s", httpRsp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("search service: %s", httpRsp.Status)
	}

	if rsp == nil {
		return nil
	}

	return json.Unmarshal(data, rsp)
}

func NewStore(opts ...indexstore.Option) indexstore.Store {
	options := indexstore.NewOptions(opts...)

	s := &azureStore{
		options: options,
		client:  &http.Client{Timeout: 30 * time.Second},
	}

	return s
}
