package hybrid

import (
	"context"

	"github.com/w-h-a/docchat/embedder"
	"github.com/w-h-a/docchat/indexstore"
	"github.com/w-h-a/docchat/retriever"
	"go.uber.org/zap"
)

// hybridRetriever embeds the question and queries the store with both the
// raw text and the vector. Failures are logged and swallowed: a broken
// provider shows up as "no results", never as a failed chat turn.
type hybridRetriever struct {
	options  retriever.Options
	embedder embedder.Embedder
	store    indexstore.Store
}

func (r *hybridRetriever) Retrieve(ctx context.Context, question string, opts ...retriever.RetrieveOption) []indexstore.Result {
	callOptions := retriever.NewRetrieveOptions(opts...)

	topK := callOptions.TopK
	if topK < 1 {
		topK = r.options.TopK
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		r.options.Logger.Error("failed to embed question, degrading to no results",
			zap.Error(err),
		)
		return []indexstore.Result{}
	}

	results, err := r.store.Query(ctx, question, vector, topK)
	if err != nil {
		r.options.Logger.Error("search query failed, degrading to no results",
			zap.Error(err),
		)
		return []indexstore.Result{}
	}

	return results
}

func NewRetriever(emb embedder.Embedder, store indexstore.Store, opts ...retriever.Option) retriever.Retriever {
	options := retriever.NewOptions(opts...)

	return &hybridRetriever{
		options:  options,
		embedder: emb,
		store:    store,
	}
}
