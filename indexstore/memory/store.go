package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/w-h-a/docchat/indexstore"
)

// memoryStore is a process-local store useful for tests and local runs. Its
// hybrid score is cosine similarity over the vectors plus a token-overlap
// term over the raw text.
type memoryStore struct {
	options indexstore.Options
	docs    map[string]indexstore.Document
	mtx     sync.RWMutex
}

func (s *memoryStore) Upsert(ctx context.Context, docs []indexstore.Document) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, doc := range docs {
		cpy := doc
		cpy.ContentVector = make([]float32, len(doc.ContentVector))
		copy(cpy.ContentVector, doc.ContentVector)
		s.docs[doc.ID] = cpy
	}

	return nil
}

func (s *memoryStore) Query(ctx context.Context, text string, vector []float32, topK int) ([]indexstore.Result, error) {
	if topK < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	queryTokens := tokenSet(text)

	candidates := make([]indexstore.Result, 0, len(s.docs))

	for _, doc := range s.docs {
		score := cosineSimilarity(vector, doc.ContentVector) + overlap(queryTokens, doc.Title+" "+doc.Content)
		candidates = append(candidates, indexstore.Result{
			ID:      doc.ID,
			Content: doc.Content,
			Title:   doc.Title,
			Source:  doc.Source,
			Score:   score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

func (s *memoryStore) EnsureIndex(ctx context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenSet(text string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[strings.Trim(tok, ".,;:!?\"'()")] = struct{}{}
	}
	return set
}

// overlap is the Ochiai coefficient between the query tokens and the text's
// token set.
func overlap(query map[string]struct{}, text string) float64 {
	if len(query) == 0 {
		return 0
	}

	docTokens := tokenSet(text)
	if len(docTokens) == 0 {
		return 0
	}

	matched := 0
	for tok := range docTokens {
		if _, ok := query[tok]; ok {
			matched++
		}
	}

	return float64(matched) / (math.Sqrt(float64(len(query))) * math.Sqrt(float64(len(docTokens))))
}

func NewStore(opts ...indexstore.Option) indexstore.Store {
	options := indexstore.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		docs:    map[string]indexstore.Document{},
	}

	return s
}
