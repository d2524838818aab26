package retriever

import (
	"context"

	"github.com/w-h-a/docchat/indexstore"
)

// Retriever turns a natural-language question into a ranked list of scored
// document chunks. Implementations degrade to an empty result list instead
// of surfacing provider failures, so a chat turn can always proceed.
type Retriever interface {
	Retrieve(ctx context.Context, question string, opts ...RetrieveOption) []indexstore.Result
}
