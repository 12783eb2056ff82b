package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// Filter is an equality predicate over a single payload field,
// most commonly document_id.
type Filter struct {
	// Field is the payload field name.
	Field string

	// Value is the exact value to match.
	Value any
}

// VectorIndex persists vectors with payloads and supports filtered
// similarity search. Backed by a Qdrant collection.
type VectorIndex interface {
	// EnsureCollection creates the collection on first use with the
	// given dimensionality, cosine metric and payload indexes. An
	// existing collection with a different dimensionality is a fatal
	// configuration error (domain.ErrInvalidConfig).
	EnsureCollection(ctx context.Context, dims int) error

	// Upsert writes points in fixed-size batches. The first failing
	// batch aborts the remainder and surfaces the error; committed
	// batches are not rolled back (at-least-once, made idempotent by
	// deterministic point ids).
	Upsert(ctx context.Context, points []domain.StoredPoint) error

	// Search returns the closest points to the query vector, optionally
	// restricted by an equality filter. No matches is a normal outcome
	// and yields an empty slice.
	Search(ctx context.Context, vector []float32, limit int, filter *Filter) ([]domain.ScoredPoint, error)

	// DeleteByField removes every point whose payload field equals the
	// given value.
	DeleteByField(ctx context.Context, field string, value any) error

	// Close releases resources.
	Close() error
}
