// Package txt parses plain text files into paragraph blocks.
package txt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text documents. Paragraphs separated by blank
// lines become one block each; plain text has no pages, so Page stays
// nil.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{"txt", "text", "md"}
}

// Parse reads the file and returns one block per paragraph.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.RawBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	var blocks []domain.RawBlock

	for _, para := range splitParagraphs(string(data)) {
		blocks = append(blocks, domain.RawBlock{
			DocumentName: name,
			Page:         nil,
			Text:         para,
			IsOCR:        false,
			Source:       domain.SourceParagraph,
			BlockIndex:   len(blocks),
		})
	}

	return blocks, nil
}

// splitParagraphs joins consecutive non-blank lines into single-line
// paragraphs and splits on blank lines.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}
