package driven

import "context"

// RelevanceScorer computes pairwise relevance between a query and each
// candidate text independently; candidates never interact with each
// other. Higher scores mean more relevant.
//
// Implementations may include:
//   - Cross-encoder models served over an HTTP rerank API
//   - A local lexical scorer (term overlap)
type RelevanceScorer interface {
	// Score returns one relevance score per text, in input order.
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}
