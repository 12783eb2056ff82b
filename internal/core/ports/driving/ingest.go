package driving

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// IngestResult reports the outcome of one document ingestion.
type IngestResult struct {
	// DocumentID tags every stored chunk of this document.
	DocumentID string

	// Blocks is the number of raw blocks the parser produced.
	Blocks int

	// ChunksStored is the number of points upserted to the index.
	ChunksStored int
}

// Ingestor drives the write path: parse, chunk, embed, store.
type Ingestor interface {
	// IngestFile parses the file with the registered parser for its
	// extension and stores the resulting chunks under a fresh document
	// id.
	IngestFile(ctx context.Context, path string) (*IngestResult, error)

	// IngestBlocks stores pre-parsed text blocks under the given
	// document identity. It is the parser-independent core operation.
	IngestBlocks(ctx context.Context, documentID, documentName string, blocks []domain.RawBlock) (*IngestResult, error)

	// Delete removes a document's vectors and registry record.
	Delete(ctx context.Context, documentID string) error
}
