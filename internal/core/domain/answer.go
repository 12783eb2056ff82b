package domain

// Citation references the document and page a context chunk came from.
// Citations record what was shown to the generation backend, not what
// the generated answer verifiably used.
type Citation struct {
	DocumentName string `json:"document_name"`
	Page         *int   `json:"page,omitempty"`
}

// Answer is the result of one query against the pipeline.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Citations are the (document, page) pairs of the chunks included
	// in the generation context. Empty when citations were not
	// requested or nothing was retrieved.
	Citations []Citation `json:"citations,omitempty"`

	// ConversationID identifies the conversation this turn belongs to.
	// Assigned on the first turn when the caller supplies none.
	ConversationID string `json:"conversation_id"`
}
