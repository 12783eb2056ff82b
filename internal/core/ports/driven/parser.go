package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// Parser extracts provenance-tagged text blocks from a document file.
// Each parser handles specific file extensions; binary format handling
// (PDF layout, DOCX archives, OCR) stays behind this boundary and never
// leaks into core services.
type Parser interface {
	// Extensions returns the lower-case file extensions this parser
	// handles, without the leading dot.
	Extensions() []string

	// Parse reads the file and returns its text blocks in document
	// order. BlockIndex is unique within one call.
	Parse(ctx context.Context, path string) ([]domain.RawBlock, error)
}

// ParserRegistry selects the parser for a given file.
type ParserRegistry interface {
	// ForPath returns the parser responsible for the file's extension,
	// or domain.ErrUnsupportedType when none is registered.
	ForPath(path string) (Parser, error)
}
