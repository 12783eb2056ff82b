package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// ConversationStore keeps per-conversation query/answer history for the
// lifetime of the serving process. Appends to a single conversation are
// serialised; different conversations never block each other.
type ConversationStore interface {
	// Create starts a new conversation and returns its id.
	Create(ctx context.Context) (string, error)

	// History returns the turns of a conversation in order, or
	// domain.ErrUnknownConversation for an id that does not exist.
	History(ctx context.Context, id string) ([]domain.Turn, error)

	// Append adds a completed turn to a conversation, or returns
	// domain.ErrUnknownConversation for an id that does not exist.
	Append(ctx context.Context, id string, turn domain.Turn) error
}
