package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/docqa-labs/docqa-cli/internal/chunker"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// Config is the full pipeline configuration.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Qdrant    QdrantConfig    `toml:"qdrant"`
	LLM       LLMConfig       `toml:"llm"`
	Rerank    RerankConfig    `toml:"rerank"`
	Ingest    IngestConfig    `toml:"ingest"`
	Storage   StorageConfig   `toml:"storage"`
}

// ChunkingConfig bounds the token windows.
type ChunkingConfig struct {
	MaxTokens int `toml:"max_tokens"`
	Overlap   int `toml:"overlap"`
}

// EmbeddingConfig selects and configures the embedding backends.
type EmbeddingConfig struct {
	// UseRemote skips the local backend entirely.
	UseRemote bool `toml:"use_remote"`

	Local  LocalEmbeddingConfig  `toml:"local"`
	Remote RemoteEmbeddingConfig `toml:"remote"`
}

// LocalEmbeddingConfig configures the Ollama primary.
type LocalEmbeddingConfig struct {
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// RemoteEmbeddingConfig configures the remote fallback. The API key
// can also come from the environment (HF_API_KEY, or OPENAI_API_KEY
// for the openai provider), which takes precedence so tokens stay out
// of config files.
type RemoteEmbeddingConfig struct {
	// Provider is "hf" (default) or "openai".
	Provider          string  `toml:"provider"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	APIKey            string  `toml:"api_key"`
	Dimensions        int     `toml:"dimensions"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// QdrantConfig configures the vector index.
type QdrantConfig struct {
	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`
	APIKey     string `toml:"api_key"`
}

// LLMConfig configures the generation backend. Hosted providers read
// their API key from the environment (OPENAI_API_KEY or
// ANTHROPIC_API_KEY) in preference to the config file.
type LLMConfig struct {
	// Provider is "openai" (default), "anthropic" or "ollama".
	Provider    string  `toml:"provider"`
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// RerankConfig selects and configures the relevance scorer.
type RerankConfig struct {
	// Provider is "lexical" (local, default) or "api" (hosted rerank
	// endpoint).
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	TopN     int    `toml:"top_n"`
}

// IngestConfig bounds ingestion concurrency.
type IngestConfig struct {
	Workers int `toml:"workers"`
}

// StorageConfig locates the local document registry.
type StorageConfig struct {
	// DataDir holds the registry database (default: ~/.docqa/data).
	DataDir string `toml:"data_dir"`
}

// Rerank provider names.
const (
	RerankLexical = "lexical"
	RerankAPI     = "api"
)

// LLM provider names.
const (
	LLMOpenAI    = "openai"
	LLMAnthropic = "anthropic"
	LLMOllama    = "ollama"
)

// Remote embedding provider names.
const (
	EmbedHF     = "hf"
	EmbedOpenAI = "openai"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			MaxTokens: chunker.DefaultMaxTokens,
			Overlap:   chunker.DefaultOverlap,
		},
		Embedding: EmbeddingConfig{
			Remote: RemoteEmbeddingConfig{
				Provider: EmbedHF,
			},
		},
		Rerank: RerankConfig{
			Provider: RerankLexical,
			TopN:     3,
		},
		Ingest: IngestConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:    LLMOpenAI,
			Temperature: 0.7,
		},
	}
}

// DefaultPath returns ~/.docqa/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docqa", "config.toml"), nil
}

// Load reads the configuration at path, applying defaults for missing
// fields and environment overrides for credentials. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the configuration to path with restricted permissions.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv overrides credentials from the environment.
func applyEnv(cfg *Config) {
	switch cfg.Embedding.Remote.Provider {
	case EmbedOpenAI:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.Embedding.Remote.APIKey = v
		}
	default:
		if v := os.Getenv("HF_API_KEY"); v != "" {
			cfg.Embedding.Remote.APIKey = v
		}
	}
	switch cfg.LLM.Provider {
	case LLMAnthropic:
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.LLM.APIKey = v
		}
	case LLMOpenAI:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.LLM.APIKey = v
		}
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.Qdrant.APIKey = v
	}
	if v := os.Getenv("RERANK_API_KEY"); v != "" {
		cfg.Rerank.APIKey = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Chunking.MaxTokens <= 0 {
		return fmt.Errorf("%w: chunking.max_tokens must be positive", domain.ErrInvalidConfig)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.MaxTokens {
		return fmt.Errorf("%w: chunking.overlap must be in [0, max_tokens)", domain.ErrInvalidConfig)
	}
	if c.Embedding.UseRemote && c.Embedding.Remote.APIKey == "" {
		return fmt.Errorf("%w: embedding.use_remote requires an API key", domain.ErrInvalidConfig)
	}
	switch c.Embedding.Remote.Provider {
	case EmbedHF, EmbedOpenAI:
	default:
		return fmt.Errorf("%w: embedding.remote.provider must be %q or %q", domain.ErrInvalidConfig, EmbedHF, EmbedOpenAI)
	}
	switch c.LLM.Provider {
	case LLMOpenAI, LLMAnthropic, LLMOllama:
	default:
		return fmt.Errorf("%w: llm.provider must be %q, %q or %q", domain.ErrInvalidConfig, LLMOpenAI, LLMAnthropic, LLMOllama)
	}
	switch c.Rerank.Provider {
	case RerankLexical, RerankAPI:
	default:
		return fmt.Errorf("%w: rerank.provider must be %q or %q", domain.ErrInvalidConfig, RerankLexical, RerankAPI)
	}
	if c.Rerank.Provider == RerankAPI && c.Rerank.APIKey == "" {
		return fmt.Errorf("%w: rerank.provider %q requires an API key", domain.ErrInvalidConfig, RerankAPI)
	}
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("%w: ingest.workers must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
