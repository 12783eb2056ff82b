package driving

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// AskRequest is one query against the ingested documents.
type AskRequest struct {
	// Query is the natural-language question.
	Query string

	// DocumentID restricts retrieval to a single document when set.
	DocumentID string

	// ConversationID continues an existing conversation when set.
	// Empty starts a new one; an unknown id is rejected with
	// domain.ErrUnknownConversation.
	ConversationID string

	// RequireCitations includes (document, page) citations in the
	// answer.
	RequireCitations bool
}

// Assistant drives the read path: retrieve, rerank, generate.
type Assistant interface {
	// Ask answers a query grounded in retrieved chunks, maintaining
	// conversation history across turns.
	Ask(ctx context.Context, req AskRequest) (*domain.Answer, error)
}
