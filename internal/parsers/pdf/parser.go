// Package pdf parses PDF files into per-page blocks.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles PDF documents. Each page with extractable text becomes
// one block tagged with its 1-based page number. Pages without a text
// layer (scanned images) are skipped; OCR recovery belongs to an
// upstream producer and arrives through IngestBlocks with IsOCR set.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{"pdf"}
}

// Parse extracts the text of every page.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.RawBlock, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	var blocks []domain.RawBlock

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", pageNum, name, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pg := pageNum
		blocks = append(blocks, domain.RawBlock{
			DocumentName: name,
			Page:         &pg,
			Text:         text,
			IsOCR:        false,
			Source:       domain.SourcePage,
			BlockIndex:   len(blocks),
		})
	}

	return blocks, nil
}
