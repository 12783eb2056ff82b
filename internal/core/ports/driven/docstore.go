package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// DocumentStore persists the registry of ingested documents.
// Backed by SQLite for metadata storage; the vector index remains the
// sole owner of chunk text and vectors.
type DocumentStore interface {
	// Save stores or updates a document record.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents ordered by ingestion time.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document record.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
