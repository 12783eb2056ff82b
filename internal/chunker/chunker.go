// Package chunker splits parsed text blocks into overlapping
// token-window chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/tokenizer"
)

// DefaultMaxTokens is the default window width in tokens.
const DefaultMaxTokens = 500

// DefaultOverlap is the default number of tokens shared by consecutive
// windows of the same block.
const DefaultOverlap = 50

// Chunker slides a fixed-width token window over each block's token
// sequence. Windows advance by maxTokens-overlap; the last window of a
// block may be shorter. Chunks never merge text across two blocks, so
// page provenance stays exact.
type Chunker struct {
	maxTokens int
	overlap   int
}

// New creates a chunker. An overlap equal to or larger than maxTokens
// would make the window stride non-positive, so it is rejected with
// domain.ErrInvalidConfig rather than looping forever.
func New(maxTokens, overlap int) (*Chunker, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max_tokens must be positive, got %d", domain.ErrInvalidConfig, maxTokens)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidConfig, overlap)
	}
	if overlap >= maxTokens {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than max_tokens %d", domain.ErrInvalidConfig, overlap, maxTokens)
	}
	return &Chunker{maxTokens: maxTokens, overlap: overlap}, nil
}

// MaxTokens returns the configured window width.
func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

// Chunk splits each block into overlapping token windows. Blocks whose
// text is empty after trimming produce no chunks. SubChunkIndex starts
// at 0 per block and increments in generation order.
func (c *Chunker) Chunk(blocks []domain.RawBlock) []domain.Chunk {
	var chunks []domain.Chunk

	for _, block := range blocks {
		if strings.TrimSpace(block.Text) == "" {
			continue
		}

		tokens := tokenizer.Encode(block.Text)
		stride := c.maxTokens - c.overlap

		subIdx := 0
		for start := 0; start < len(tokens); start += stride {
			end := start + c.maxTokens
			if end > len(tokens) {
				end = len(tokens)
			}

			chunk := domain.Chunk{
				RawBlock:      block,
				SubChunkIndex: subIdx,
			}
			chunk.Text = tokenizer.Decode(tokens[start:end])
			chunks = append(chunks, chunk)

			subIdx++
			if end == len(tokens) {
				break
			}
		}
	}

	return chunks
}
