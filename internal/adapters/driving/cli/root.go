// Package cli provides the cobra command tree. Commands stay thin:
// they parse flags, call the core services and format output.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/config/file"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/hf"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/docqa-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/docqa-labs/docqa-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/docqa-labs/docqa-cli/internal/adapters/driven/llm/openai"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/rerank/cohere"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/rerank/lexical"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/memory"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/vector/qdrant"
	"github.com/docqa-labs/docqa-cli/internal/chunker"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/core/services"
	"github.com/docqa-labs/docqa-cli/internal/logger"
	"github.com/docqa-labs/docqa-cli/internal/parsers"
	"github.com/docqa-labs/docqa-cli/internal/parsers/docx"
	"github.com/docqa-labs/docqa-cli/internal/parsers/pdf"
	"github.com/docqa-labs/docqa-cli/internal/parsers/txt"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services wired by ensureServices. Tests inject fakes here directly.
var (
	cfg           file.Config
	ingestor      driving.Ingestor
	assistant     driving.Assistant
	documentStore driven.DocumentStore
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa ingests documents into a vector index and answers
natural-language questions about them, with source citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docqa/config.toml)")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration once per invocation.
func loadConfig() error {
	path := configPath
	if path == "" {
		defaultPath, err := file.DefaultPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	loaded, err := file.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newLLM builds the generation backend named by the configuration.
// Hosted providers are skipped when no API key is set; asking then
// fails with domain.ErrLLMUnavailable while ingestion keeps working.
func newLLM(cfg file.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case file.LLMOllama:
		return llmollama.NewLLMService(llmollama.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case file.LLMAnthropic:
		if cfg.APIKey == "" {
			return nil, nil
		}
		svc, err := anthropic.NewLLMService(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		if cfg.APIKey == "" {
			return nil, nil
		}
		svc, err := llmopenai.NewLLMService(llmopenai.LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

// ensureServices wires the pipeline from configuration. Globals set by
// tests are left alone.
func ensureServices(ctx context.Context) error {
	if ingestor != nil && assistant != nil && documentStore != nil {
		return nil
	}
	if err := loadConfig(); err != nil {
		return err
	}

	embedder, err := embedding.Select(ctx, embedding.Options{
		UseRemote: cfg.Embedding.UseRemote,
		Local: ollama.Config{
			BaseURL:    cfg.Embedding.Local.BaseURL,
			Model:      cfg.Embedding.Local.Model,
			Dimensions: cfg.Embedding.Local.Dimensions,
		},
		RemoteProvider: cfg.Embedding.Remote.Provider,
		Remote: hf.Config{
			BaseURL:           cfg.Embedding.Remote.BaseURL,
			Model:             cfg.Embedding.Remote.Model,
			APIKey:            cfg.Embedding.Remote.APIKey,
			Dimensions:        cfg.Embedding.Remote.Dimensions,
			RequestsPerSecond: cfg.Embedding.Remote.RequestsPerSecond,
		},
		OpenAI: embopenai.Config{
			BaseURL:    cfg.Embedding.Remote.BaseURL,
			Model:      cfg.Embedding.Remote.Model,
			APIKey:     cfg.Embedding.Remote.APIKey,
			Dimensions: cfg.Embedding.Remote.Dimensions,
		},
	})
	if err != nil {
		return err
	}

	index := qdrant.NewIndex(qdrant.Config{
		BaseURL:    cfg.Qdrant.BaseURL,
		Collection: cfg.Qdrant.Collection,
		APIKey:     cfg.Qdrant.APIKey,
	})

	ch, err := chunker.New(cfg.Chunking.MaxTokens, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	registry := parsers.NewRegistry(txt.New(), pdf.New(), docx.New())

	if documentStore == nil {
		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("open document registry: %w", err)
		}
		documentStore = store
	}

	if ingestor == nil {
		ingestor = services.NewIngestService(registry, ch, embedder, index, documentStore, cfg.Ingest.Workers)
	}

	if assistant == nil {
		var scorer driven.RelevanceScorer
		switch cfg.Rerank.Provider {
		case file.RerankAPI:
			scorer, err = cohere.NewScorer(cohere.Config{
				BaseURL: cfg.Rerank.BaseURL,
				Model:   cfg.Rerank.Model,
				APIKey:  cfg.Rerank.APIKey,
			})
			if err != nil {
				return err
			}
		default:
			scorer = lexical.NewScorer()
		}

		llm, err := newLLM(cfg.LLM)
		if err != nil {
			return err
		}

		conversations := memory.NewConversationStore(memory.ConversationOptions{})
		retriever := services.NewRetriever(index, cfg.Chunking.MaxTokens)
		reranker := services.NewReranker(scorer)
		assistant = services.NewAnswerService(conversations, embedder, retriever, reranker, llm,
			cfg.Rerank.TopN, driven.GenerateOptions{
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			})
	}

	return nil
}
