// Package embedding selects the embedding backend: a local Ollama
// server as the primary, the Hugging Face Inference API as the remote
// fallback.
package embedding

import (
	"context"
	"fmt"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/hf"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Remote provider names.
const (
	RemoteHF     = "hf"
	RemoteOpenAI = "openai"
)

// Options configures backend selection.
type Options struct {
	// UseRemote skips the local backend entirely.
	UseRemote bool

	// Local configures the Ollama primary.
	Local ollama.Config

	// RemoteProvider names the remote backend: RemoteHF (default) or
	// RemoteOpenAI.
	RemoteProvider string

	// Remote configures the Hugging Face fallback.
	Remote hf.Config

	// OpenAI configures the OpenAI-compatible fallback, used when
	// RemoteProvider is RemoteOpenAI.
	OpenAI openai.Config
}

// remoteKey returns the credential of the selected remote backend.
func (o Options) remoteKey() string {
	if o.RemoteProvider == RemoteOpenAI {
		return o.OpenAI.APIKey
	}
	return o.Remote.APIKey
}

// newRemote builds the selected remote backend.
func newRemote(opts Options) (driven.EmbeddingService, error) {
	if opts.RemoteProvider == RemoteOpenAI {
		svc, err := openai.NewEmbeddingService(opts.OpenAI)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return hf.NewEmbeddingService(opts.Remote), nil
}

// Select returns the embedding service to use. The local backend is
// preferred; an unreachable local server falls back to the remote API
// when a credential is configured. UseRemote without a credential is a
// configuration error, and so is having no reachable backend at all.
func Select(ctx context.Context, opts Options) (driven.EmbeddingService, error) {
	if opts.UseRemote {
		if opts.remoteKey() == "" {
			return nil, fmt.Errorf("%w: remote embedding requested but no API key configured", domain.ErrInvalidConfig)
		}
		return newRemote(opts)
	}

	local := ollama.NewEmbeddingService(opts.Local)
	err := local.Ping(ctx)
	if err == nil {
		logger.Debug("Using local embedding backend %s", local.ModelName())
		return local, nil
	}
	logger.Warn("Local embedding backend unreachable: %v", err)

	if opts.remoteKey() == "" {
		return nil, fmt.Errorf("%w: local backend unreachable and no remote API key configured", domain.ErrEmbeddingUnavailable)
	}

	remote, err := newRemote(opts)
	if err != nil {
		return nil, err
	}
	logger.Info("Falling back to remote embedding backend %s", remote.ModelName())
	return remote, nil
}
