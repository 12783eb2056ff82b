package domain

import "time"

// Turn is one completed query/answer exchange in a conversation.
type Turn struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// Conversation is an ordered sequence of turns identified by ID.
// Conversations live for the serving process only; they are not
// persisted across restarts.
type Conversation struct {
	// ID is the unique conversation identifier.
	ID string

	// Turns are the completed exchanges in chronological order.
	Turns []Turn

	// UpdatedAt is when the last turn was appended. Used for TTL
	// eviction.
	UpdatedAt time.Time
}
