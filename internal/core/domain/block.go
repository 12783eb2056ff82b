package domain

// BlockSource identifies how a text block was extracted from a document.
type BlockSource string

const (
	// SourcePage marks text extracted from a whole page (PDF).
	SourcePage BlockSource = "page"

	// SourceParagraph marks text extracted from a paragraph (DOCX, TXT).
	SourceParagraph BlockSource = "paragraph"

	// SourceImage marks text recovered from an embedded image via OCR.
	SourceImage BlockSource = "image"
)

// RawBlock is one parser-extracted unit of text with provenance.
// Parsers produce a block per page or paragraph; BlockIndex is unique
// within a single document's parse.
type RawBlock struct {
	// DocumentName is the human-readable file name of the source document.
	DocumentName string

	// Page is the 1-based page number, nil for formats without pages.
	Page *int

	// Text is the extracted text content.
	Text string

	// IsOCR reports whether the text was recovered via OCR.
	IsOCR bool

	// Source is the extraction provenance (page, paragraph, image).
	Source BlockSource

	// BlockIndex is the ordinal position within the document's parse.
	BlockIndex int
}

// Chunk is a bounded token window of a RawBlock, the atomic unit that
// is embedded, stored and retrieved. For a fixed (document, BlockIndex)
// the SubChunkIndex values are contiguous starting at 0 in generation
// order. Chunks never span two blocks, so page provenance stays exact.
type Chunk struct {
	RawBlock

	// SubChunkIndex is the window's position within the block.
	SubChunkIndex int
}
