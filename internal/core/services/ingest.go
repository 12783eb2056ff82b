package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-cli/internal/chunker"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// DefaultEmbedBatchSize is the number of chunk texts sent to the
// embedding backend per call.
const DefaultEmbedBatchSize = 32

// DefaultWorkers bounds the embedding worker pool so one large
// ingestion cannot monopolise the process.
const DefaultWorkers = 4

// IngestService drives the write path: parse, chunk, embed, store.
type IngestService struct {
	registry driven.ParserRegistry
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docs     driven.DocumentStore
	workers  int

	ensureMu sync.Mutex
	ensured  bool
}

// NewIngestService creates an ingest service. The document store is
// optional; without it documents cannot be listed later, but ingestion
// still works. workers <= 0 selects DefaultWorkers.
func NewIngestService(
	registry driven.ParserRegistry,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docs driven.DocumentStore,
	workers int,
) *IngestService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &IngestService{
		registry: registry,
		chunker:  ch,
		embedder: embedder,
		index:    index,
		docs:     docs,
		workers:  workers,
	}
}

// IngestFile parses the file and stores its chunks under a fresh
// document id.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestResult, error) {
	parser, err := s.registry.ForPath(path)
	if err != nil {
		return nil, err
	}

	blocks, err := parser.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	documentID := uuid.New().String()
	return s.ingest(ctx, documentID, filepath.Base(path), path, blocks)
}

// IngestBlocks stores pre-parsed blocks under the given document
// identity. Re-ingesting the same blocks under the same id overwrites
// the same points instead of duplicating them.
func (s *IngestService) IngestBlocks(ctx context.Context, documentID, documentName string, blocks []domain.RawBlock) (*driving.IngestResult, error) {
	if documentID == "" {
		documentID = uuid.New().String()
	}
	return s.ingest(ctx, documentID, documentName, "", blocks)
}

// Delete removes a document's vectors and its registry record.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.index.DeleteByField(ctx, "document_id", documentID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if s.docs != nil {
		if err := s.docs.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("delete registry record: %w", err)
		}
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

func (s *IngestService) ingest(ctx context.Context, documentID, documentName, path string, blocks []domain.RawBlock) (*driving.IngestResult, error) {
	logger.Section("Ingestion")
	defer logger.Timing("Ingestion", time.Now())

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: %w", documentName, domain.ErrEmptyDocument)
	}

	chunks := s.chunker.Chunk(blocks)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", documentName, domain.ErrEmptyDocument)
	}
	logger.Debug("Chunked %d blocks into %d chunks", len(blocks), len(chunks))

	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vectors, err := s.embedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	points := make([]domain.StoredPoint, len(chunks))
	for i := range chunks {
		points[i] = domain.NewStoredPoint(documentID, chunks[i], vectors[i])
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return nil, err
	}

	if s.docs != nil {
		doc := &domain.Document{
			ID:        documentID,
			Name:      documentName,
			Path:      path,
			Blocks:    len(blocks),
			Chunks:    len(points),
			CreatedAt: time.Now(),
		}
		if err := s.docs.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("save registry record: %w", err)
		}
	}

	logger.Info("Stored %d chunks for document %s", len(points), documentID)
	return &driving.IngestResult{
		DocumentID:   documentID,
		Blocks:       len(blocks),
		ChunksStored: len(points),
	}, nil
}

// ensureCollection creates the collection once per process. Only
// success is cached; a failure is retried on the next ingestion so a
// transient index outage does not poison later attempts.
func (s *IngestService) ensureCollection(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.ensured {
		return nil
	}
	if err := s.index.EnsureCollection(ctx, s.embedder.Dimensions()); err != nil {
		return err
	}
	s.ensured = true
	return nil
}

// embedTexts embeds chunk texts in fixed-size batches spread over a
// bounded worker pool. The first failure cancels the remaining work.
func (s *IngestService) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batch struct{ start, end int }

	jobs := make(chan batch)
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	workers := s.workers
	if workers > len(texts) {
		workers = len(texts)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				out, err := s.embedder.EmbedBatch(ctx, texts[b.start:b.end])
				if err != nil {
					fail(fmt.Errorf("embed chunks %d..%d: %w", b.start, b.end, err))
					return
				}
				// Disjoint ranges, no locking needed.
				copy(vectors[b.start:], out)
			}
		}()
	}

	for start := 0; start < len(texts); start += DefaultEmbedBatchSize {
		end := start + DefaultEmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		select {
		case jobs <- batch{start: start, end: end}:
		case <-ctx.Done():
			start = len(texts)
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
