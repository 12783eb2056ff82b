package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Reranker rescores coarse candidates with a pairwise relevance scorer
// and keeps the best topN. A nil scorer degrades to the retrieval
// order.
type Reranker struct {
	scorer driven.RelevanceScorer
}

// NewReranker creates a reranker around the given scorer (may be nil).
func NewReranker(scorer driven.RelevanceScorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank returns the topN candidates ordered by descending pairwise
// relevance to the query. The sort is stable, so ties keep their
// original retrieval order. Asking for more candidates than exist
// simply returns them all.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []domain.ScoredPoint, topN int) ([]domain.ScoredPoint, error) {
	if len(candidates) == 0 || topN <= 0 {
		return nil, nil
	}

	ranked := make([]domain.ScoredPoint, len(candidates))
	copy(ranked, candidates)

	if r.scorer != nil {
		texts := make([]string, len(ranked))
		for i := range ranked {
			texts[i] = ranked[i].Payload.PageContent
		}

		scores, err := r.scorer.Score(ctx, query, texts)
		if err != nil {
			return nil, fmt.Errorf("relevance scoring: %w", err)
		}
		if len(scores) != len(ranked) {
			return nil, fmt.Errorf("relevance scoring: got %d scores for %d candidates", len(scores), len(ranked))
		}

		for i := range ranked {
			ranked[i].Score = scores[i]
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})
	}

	if topN < len(ranked) {
		ranked = ranked[:topN]
	}

	logger.Debug("Rerank: kept %d of %d candidates", len(ranked), len(candidates))
	return ranked, nil
}
