package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/hf"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// localServer fakes a reachable Ollama instance.
func localServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSelect_PrefersReachableLocal(t *testing.T) {
	srv := localServer(t)

	svc, err := Select(context.Background(), Options{
		Local: ollama.Config{BaseURL: srv.URL, Model: "nomic-embed-text"},
	})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}

func TestSelect_FallsBackToRemote(t *testing.T) {
	// Closed immediately, so the local ping fails.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	svc, err := Select(context.Background(), Options{
		Local:  ollama.Config{BaseURL: srv.URL},
		Remote: hf.Config{APIKey: "hf-token", Model: "custom-model"},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", svc.ModelName())
}

func TestSelect_NoBackendAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := Select(context.Background(), Options{
		Local: ollama.Config{BaseURL: srv.URL},
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSelect_UseRemoteRequiresKey(t *testing.T) {
	_, err := Select(context.Background(), Options{UseRemote: true})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSelect_UseRemoteSkipsLocal(t *testing.T) {
	svc, err := Select(context.Background(), Options{
		UseRemote: true,
		Remote:    hf.Config{APIKey: "hf-token"},
	})
	require.NoError(t, err)
	assert.Equal(t, hf.DefaultModel, svc.ModelName())
}

func TestSelect_OpenAIRemoteProvider(t *testing.T) {
	svc, err := Select(context.Background(), Options{
		UseRemote:      true,
		RemoteProvider: RemoteOpenAI,
		OpenAI:         openai.Config{APIKey: "oa-key"},
	})
	require.NoError(t, err)
	assert.Equal(t, openai.DefaultModel, svc.ModelName())
}

func TestSelect_OpenAIProviderIgnoresHFKey(t *testing.T) {
	_, err := Select(context.Background(), Options{
		UseRemote:      true,
		RemoteProvider: RemoteOpenAI,
		Remote:         hf.Config{APIKey: "hf-token"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
