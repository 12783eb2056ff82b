// Package docx parses DOCX files into paragraph blocks.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles DOCX documents. Each non-empty paragraph of
// word/document.xml becomes one block; DOCX has no page concept, so
// Page stays nil.
type Parser struct{}

// New creates a new DOCX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{"docx"}
}

// Parse opens the DOCX archive and extracts its paragraphs.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.RawBlock, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, domain.ErrInvalidInput)
	}
	defer reader.Close()

	paragraphs, err := extractParagraphs(&reader.Reader)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	var blocks []domain.RawBlock

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
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

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractParagraphs reads word/document.xml and returns its paragraph
// texts in document order.
func extractParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", domain.ErrInvalidInput)
		}

		paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
		for _, para := range doc.Body.Paragraphs {
			var sb strings.Builder
			for _, r := range para.Runs {
				for _, t := range r.Text {
					sb.WriteString(t.Content)
				}
			}
			paragraphs = append(paragraphs, sb.String())
		}
		return paragraphs, nil
	}
	return nil, nil
}
