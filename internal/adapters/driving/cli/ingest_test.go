package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

func TestIngestCmd_IngestsEachFile(t *testing.T) {
	fake := &fakeIngestor{result: &driving.IngestResult{
		DocumentID:   "doc-1",
		Blocks:       4,
		ChunksStored: 9,
	}}
	withFakeServices(t, &fakeAssistant{}, fake)

	out, err := runCommand(t, "ingest", "a.txt", "b.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.pdf"}, fake.files)
	assert.Contains(t, out, "a.txt: 4 blocks, 9 chunks")
	assert.Contains(t, out, "doc-1")
}

func TestIngestCmd_UnsupportedType(t *testing.T) {
	fake := &fakeIngestor{err: domain.ErrUnsupportedType}
	withFakeServices(t, &fakeAssistant{}, fake)

	_, err := runCommand(t, "ingest", "diagram.bmp")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	withFakeServices(t, &fakeAssistant{}, &fakeIngestor{})

	_, err := runCommand(t, "ingest")
	assert.Error(t, err)
}

func TestDocumentsListCmd(t *testing.T) {
	withFakeServices(t, &fakeAssistant{}, &fakeIngestor{})

	require.NoError(t, documentStore.Save(context.Background(), &domain.Document{
		ID:        "doc-1",
		Name:      "report.pdf",
		Chunks:    9,
		CreatedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}))

	out, err := runCommand(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentsListCmd_Empty(t *testing.T) {
	withFakeServices(t, &fakeAssistant{}, &fakeIngestor{})

	out, err := runCommand(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentsDeleteCmd(t *testing.T) {
	fake := &fakeIngestor{}
	withFakeServices(t, &fakeAssistant{}, fake)

	out, err := runCommand(t, "documents", "delete", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, fake.deleted)
	assert.Contains(t, out, "Deleted document doc-1")
}

func TestDocumentsDeleteCmd_Failure(t *testing.T) {
	fake := &fakeIngestor{err: errors.New("index unreachable")}
	withFakeServices(t, &fakeAssistant{}, fake)

	_, err := runCommand(t, "documents", "delete", "doc-1")
	assert.Error(t, err)
}
