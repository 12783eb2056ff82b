package driven

import "context"

// LLMService provides text generation for answer synthesis.
//
// Implementations may include:
//   - OpenAI-compatible chat completion APIs
//   - Local inference servers exposing the same surface
type LLMService interface {
	// Generate produces a completion for a fully composed prompt.
	// The call honours ctx cancellation; an abandoned request must not
	// keep generating on the caller's behalf.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
