package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/memory"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

// fakeAssistant implements driving.Assistant for command tests.
type fakeAssistant struct {
	answer  *domain.Answer
	err     error
	lastReq driving.AskRequest
}

func (f *fakeAssistant) Ask(_ context.Context, req driving.AskRequest) (*domain.Answer, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// fakeIngestor implements driving.Ingestor for command tests.
type fakeIngestor struct {
	result  *driving.IngestResult
	err     error
	files   []string
	deleted []string
}

func (f *fakeIngestor) IngestFile(_ context.Context, path string) (*driving.IngestResult, error) {
	f.files = append(f.files, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeIngestor) IngestBlocks(_ context.Context, documentID, _ string, _ []domain.RawBlock) (*driving.IngestResult, error) {
	return &driving.IngestResult{DocumentID: documentID}, nil
}

func (f *fakeIngestor) Delete(_ context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return f.err
}

// withFakeServices installs fakes for one test and restores globals.
func withFakeServices(t *testing.T, a *fakeAssistant, i *fakeIngestor) {
	t.Helper()
	origAssistant, origIngestor, origStore := assistant, ingestor, documentStore
	assistant = a
	ingestor = i
	documentStore = memory.NewDocumentStore()
	t.Cleanup(func() {
		assistant, ingestor, documentStore = origAssistant, origIngestor, origStore
	})
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAskCmd_PrintsAnswer(t *testing.T) {
	page := 3
	fake := &fakeAssistant{answer: &domain.Answer{
		Text:           "Two years.",
		ConversationID: "conv-1",
		Citations: []domain.Citation{
			{DocumentName: "report.pdf", Page: &page},
		},
	}}
	withFakeServices(t, fake, &fakeIngestor{})

	out, err := runCommand(t, "ask", "How long is the warranty?", "--citations")
	require.NoError(t, err)

	assert.Contains(t, out, "Two years.")
	assert.Contains(t, out, "report.pdf (page 3)")
	assert.Contains(t, out, "conv-1")
	assert.True(t, fake.lastReq.RequireCitations)
	assert.Equal(t, "How long is the warranty?", fake.lastReq.Query)
}

func TestAskCmd_ForwardsFlags(t *testing.T) {
	fake := &fakeAssistant{answer: &domain.Answer{Text: "ok", ConversationID: "conv-2"}}
	withFakeServices(t, fake, &fakeIngestor{})

	_, err := runCommand(t, "ask", "q", "--document", "doc-9", "--conversation", "conv-2")
	require.NoError(t, err)

	assert.Equal(t, "doc-9", fake.lastReq.DocumentID)
	assert.Equal(t, "conv-2", fake.lastReq.ConversationID)
}

func TestAskCmd_JSONOutput(t *testing.T) {
	fake := &fakeAssistant{answer: &domain.Answer{Text: "ok", ConversationID: "conv-3"}}
	withFakeServices(t, fake, &fakeIngestor{})

	out, err := runCommand(t, "ask", "q", "--json")
	require.NoError(t, err)

	var decoded domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ok", decoded.Text)
	assert.Equal(t, "conv-3", decoded.ConversationID)
}

func TestAskCmd_UnknownConversation(t *testing.T) {
	fake := &fakeAssistant{err: domain.ErrUnknownConversation}
	withFakeServices(t, fake, &fakeIngestor{})

	_, err := runCommand(t, "ask", "q", "--conversation", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownConversation)
}
