package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a fatal configuration problem:
	// chunk/overlap bounds, a missing credential for a selected remote
	// backend, or an embedding dimension mismatch against an existing
	// collection. Raised at startup, never per request.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedType indicates a document format no parser handles.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmptyDocument indicates parsing produced no text blocks.
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnknownConversation indicates the caller supplied a
	// conversation id that does not exist. The pipeline rejects it
	// rather than silently starting a new conversation.
	ErrUnknownConversation = errors.New("unknown conversation id")

	// ErrEmbeddingUnavailable indicates no embedding backend can serve
	// the request: the local model failed to load and no remote
	// fallback is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation backend is not
	// configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// EmbeddingError reports a failed call to a remote embedding backend.
// It carries the HTTP status and response body so the caller can decide
// whether to retry; this layer never retries.
type EmbeddingError struct {
	StatusCode int
	Body       string
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding backend error (status %d): %s", e.StatusCode, e.Body)
}

// IndexError reports a failed vector index operation. During batched
// upserts the first failing batch aborts the remainder; batches already
// committed are not rolled back.
type IndexError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *IndexError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("vector index %s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("vector index %s failed: %s", e.Op, e.Body)
}
