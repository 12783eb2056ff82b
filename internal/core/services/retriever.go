package services

import (
	"context"
	"fmt"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Retriever issues the coarse first-stage similarity search. Its recall
// budget k is wider than the final context size; the reranker narrows
// the candidates afterwards.
type Retriever struct {
	index driven.VectorIndex
	k     int
}

// NewRetriever creates a retriever. The recall budget is derived from
// the chunk window width (maxTokens/100, minimum 1).
func NewRetriever(index driven.VectorIndex, maxTokens int) *Retriever {
	k := maxTokens / 100
	if k < 1 {
		k = 1
	}
	return &Retriever{index: index, k: k}
}

// K returns the coarse recall budget.
func (r *Retriever) K() int {
	return r.k
}

// Retrieve returns up to k candidates closest to the query vector,
// restricted to one document when documentID is set. No matching
// vectors is a normal outcome and yields an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, vector []float32, documentID string) ([]domain.ScoredPoint, error) {
	var filter *driven.Filter
	if documentID != "" {
		filter = &driven.Filter{Field: "document_id", Value: documentID}
	}

	hits, err := r.index.Search(ctx, vector, r.k, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Coarse retrieval: %d candidates (k=%d, document=%q)", len(hits), r.k, documentID)
	return hits, nil
}
