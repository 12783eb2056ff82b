package domain

import "time"

// Document is the registry record for an ingested document. The vector
// index owns the chunks and vectors; this record only tracks identity
// and ingestion stats so documents can be listed and deleted later.
type Document struct {
	// ID is the unique identifier tagged onto every chunk of this
	// document.
	ID string

	// Name is the original file name, used in citations.
	Name string

	// Path is the filesystem path the document was ingested from.
	Path string

	// Blocks is the number of raw blocks the parser produced.
	Blocks int

	// Chunks is the number of stored points after chunking.
	Chunks int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}
