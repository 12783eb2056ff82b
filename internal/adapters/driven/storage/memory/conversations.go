package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// Default conversation retention bounds.
const (
	DefaultMaxTurns = 50
	DefaultTTL      = 24 * time.Hour
)

// ConversationOptions bounds conversation retention.
type ConversationOptions struct {
	// MaxTurns caps the history length per conversation; the oldest
	// turns are dropped first. Zero selects DefaultMaxTurns.
	MaxTurns int

	// TTL expires conversations not touched for this long. Zero
	// selects DefaultTTL.
	TTL time.Duration
}

// entry pairs a conversation with its own lock so appends to one
// conversation never block appends to another.
type entry struct {
	mu   sync.Mutex
	conv domain.Conversation
}

// ConversationStore is an in-memory implementation of
// driven.ConversationStore. State lives for the serving process only.
// The store lock guards the map; each conversation mutates under its
// own lock.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*entry
	maxTurns      int
	ttl           time.Duration
	now           func() time.Time
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore(opts ConversationOptions) *ConversationStore {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &ConversationStore{
		conversations: make(map[string]*entry),
		maxTurns:      opts.MaxTurns,
		ttl:           opts.TTL,
		now:           time.Now,
	}
}

// Create starts a new conversation and returns its id.
func (s *ConversationStore) Create(_ context.Context) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.conversations[id] = &entry{conv: domain.Conversation{
		ID:        id,
		UpdatedAt: s.now(),
	}}
	return id, nil
}

// History returns the turns of a conversation in order.
func (s *ConversationStore) History(_ context.Context, id string) ([]domain.Turn, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.expired(&e.conv) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConversation, id)
	}

	turns := make([]domain.Turn, len(e.conv.Turns))
	copy(turns, e.conv.Turns)
	return turns, nil
}

// Append adds a completed turn to a conversation.
func (s *ConversationStore) Append(_ context.Context, id string, turn domain.Turn) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s.expired(&e.conv) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownConversation, id)
	}

	e.conv.Turns = append(e.conv.Turns, turn)
	if len(e.conv.Turns) > s.maxTurns {
		e.conv.Turns = e.conv.Turns[len(e.conv.Turns)-s.maxTurns:]
	}
	e.conv.UpdatedAt = s.now()
	return nil
}

// lookup finds a conversation entry, holding the store lock only for
// the map read.
func (s *ConversationStore) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConversation, id)
	}
	return e, nil
}

// expired reports whether a conversation has outlived its TTL.
// Callers must hold the entry lock.
func (s *ConversationStore) expired(conv *domain.Conversation) bool {
	return s.now().Sub(conv.UpdatedAt) > s.ttl
}

// evictExpired drops conversations past their TTL. Callers must hold
// the store write lock.
func (s *ConversationStore) evictExpired() {
	for id, e := range s.conversations {
		e.mu.Lock()
		dead := s.expired(&e.conv)
		e.mu.Unlock()
		if dead {
			delete(s.conversations, id)
		}
	}
}
