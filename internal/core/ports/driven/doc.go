// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Parser / ParserRegistry: extract provenance-tagged text blocks from files
//   - EmbeddingService: turns text into dense vectors
//   - VectorIndex: persists and searches stored points
//   - ConversationStore: process-lifetime conversation history
//   - DocumentStore: registry of ingested documents
//
// # Optional Interfaces
//
//   - LLMService: answer generation. Without it, queries fail with
//     domain.ErrLLMUnavailable.
//   - RelevanceScorer: pairwise rerank scoring. Without it, coarse
//     retrieval order is used as-is.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
