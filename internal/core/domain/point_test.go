package domain

import "testing"

func TestPointIDDeterministic(t *testing.T) {
	a := PointID("doc-1", 2, 3)
	b := PointID("doc-1", 2, 3)
	if a != b {
		t.Errorf("expected stable id, got %s and %s", a, b)
	}
}

func TestPointIDUniquePerCoordinate(t *testing.T) {
	seen := map[string]bool{}
	for block := 0; block < 4; block++ {
		for sub := 0; sub < 4; sub++ {
			id := PointID("doc-1", block, sub)
			if seen[id] {
				t.Fatalf("duplicate id %s for (%d,%d)", id, block, sub)
			}
			seen[id] = true
		}
	}
	if id := PointID("doc-2", 0, 0); seen[id] {
		t.Errorf("id collision across documents: %s", id)
	}
}

func TestNewStoredPointPayload(t *testing.T) {
	page := 7
	chunk := Chunk{
		RawBlock: RawBlock{
			DocumentName: "report.pdf",
			Page:         &page,
			Text:         "some content",
			IsOCR:        true,
			Source:       SourcePage,
			BlockIndex:   4,
		},
		SubChunkIndex: 2,
	}

	point := NewStoredPoint("doc-9", chunk, []float32{0.1, 0.2})

	if point.ID != PointID("doc-9", 4, 2) {
		t.Errorf("unexpected point id %s", point.ID)
	}
	if point.Payload.DocumentID != "doc-9" {
		t.Errorf("expected document_id doc-9, got %s", point.Payload.DocumentID)
	}
	if point.Payload.PageContent != "some content" {
		t.Errorf("payload text mismatch: %q", point.Payload.PageContent)
	}

	back := point.Payload.Chunk()
	if back != chunk {
		t.Errorf("payload did not round-trip chunk: %+v", back)
	}
}
