package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// pointNamespace scopes deterministic point ids to this application.
// Changing it invalidates every previously stored point id.
var pointNamespace = uuid.MustParse("9f2d41f0-6e3a-4c11-8a6b-5d2f0c7e9b34")

// Payload holds the metadata persisted alongside each vector.
// Field names are wire-compatible across ingestion and query.
type Payload struct {
	DocumentID    string      `json:"document_id"`
	DocumentName  string      `json:"document_name"`
	Page          *int        `json:"page"`
	PageContent   string      `json:"page_content"`
	IsOCR         bool        `json:"is_ocr"`
	Source        BlockSource `json:"source"`
	ChunkIndex    int         `json:"chunk_index"`
	SubChunkIndex int         `json:"sub_chunk_index"`
}

// Chunk reconstructs the chunk carried by this payload.
func (p Payload) Chunk() Chunk {
	return Chunk{
		RawBlock: RawBlock{
			DocumentName: p.DocumentName,
			Page:         p.Page,
			Text:         p.PageContent,
			IsOCR:        p.IsOCR,
			Source:       p.Source,
			BlockIndex:   p.ChunkIndex,
		},
		SubChunkIndex: p.SubChunkIndex,
	}
}

// StoredPoint is one vector plus payload as persisted in the index.
type StoredPoint struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// ScoredPoint is a stored point annotated with a similarity or
// relevance score.
type ScoredPoint struct {
	StoredPoint
	Score float64
}

// PointID derives the deterministic point id for one chunk of a
// document. It is a UUIDv5 of the composite (document, block, sub-chunk)
// key, so re-ingesting the same document overwrites the same points
// instead of growing the collection, and ids remain valid under
// concurrent batched ingestion.
func PointID(documentID string, blockIndex, subChunkIndex int) string {
	key := fmt.Sprintf("%s-%d-%d", documentID, blockIndex, subChunkIndex)
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// NewStoredPoint builds the stored point for a chunk of a document.
func NewStoredPoint(documentID string, chunk Chunk, vector []float32) StoredPoint {
	return StoredPoint{
		ID:     PointID(documentID, chunk.BlockIndex, chunk.SubChunkIndex),
		Vector: vector,
		Payload: Payload{
			DocumentID:    documentID,
			DocumentName:  chunk.DocumentName,
			Page:          chunk.Page,
			PageContent:   chunk.Text,
			IsOCR:         chunk.IsOCR,
			Source:        chunk.Source,
			ChunkIndex:    chunk.BlockIndex,
			SubChunkIndex: chunk.SubChunkIndex,
		},
	}
}
