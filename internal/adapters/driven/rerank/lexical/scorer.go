// Package lexical provides a local relevance scorer based on term
// overlap. It needs no external service, so reranking always has a
// working backend.
package lexical

import (
	"context"
	"strings"
	"unicode"

	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.RelevanceScorer = (*Scorer)(nil)

// Scorer scores candidates by the fraction of query terms they contain.
type Scorer struct{}

// NewScorer creates a new lexical scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns, for each text, the fraction of distinct query terms
// present in it. A query with no usable terms scores everything 0.
func (s *Scorer) Score(_ context.Context, query string, texts []string) ([]float64, error) {
	queryTerms := termSet(query)
	scores := make([]float64, len(texts))
	if len(queryTerms) == 0 {
		return scores, nil
	}

	for i, text := range texts {
		candidateTerms := termSet(text)
		matched := 0
		for term := range queryTerms {
			if candidateTerms[term] {
				matched++
			}
		}
		scores[i] = float64(matched) / float64(len(queryTerms))
	}
	return scores, nil
}

// termSet lowercases and splits on non-letter, non-digit runes.
func termSet(text string) map[string]bool {
	terms := map[string]bool{}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		terms[f] = true
	}
	return terms
}
