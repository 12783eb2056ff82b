package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Assistant = (*AnswerService)(nil)

// NoContextAnswer is returned without invoking the generation backend
// when retrieval finds nothing relevant.
const NoContextAnswer = "I couldn't find relevant information."

// answerInstruction pins generation to the retrieved context.
const answerInstruction = "Use the following context to answer the question. " +
	"If you don't know the answer, just say you don't know."

// DefaultTopN is the number of reranked chunks shown to the generation
// backend.
const DefaultTopN = 3

// AnswerService composes grounded answers: it embeds the query,
// retrieves and reranks candidate chunks, builds a single-pass prompt
// with conversation history, and formats citations.
type AnswerService struct {
	conversations driven.ConversationStore
	embedder      driven.EmbeddingService
	retriever     *Retriever
	reranker      *Reranker
	llm           driven.LLMService
	topN          int
	genOpts       driven.GenerateOptions
}

// NewAnswerService creates an answer service. topN <= 0 selects
// DefaultTopN.
func NewAnswerService(
	conversations driven.ConversationStore,
	embedder driven.EmbeddingService,
	retriever *Retriever,
	reranker *Reranker,
	llm driven.LLMService,
	topN int,
	genOpts driven.GenerateOptions,
) *AnswerService {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &AnswerService{
		conversations: conversations,
		embedder:      embedder,
		retriever:     retriever,
		reranker:      reranker,
		llm:           llm,
		topN:          topN,
		genOpts:       genOpts,
	}
}

// Ask answers a query grounded in retrieved chunks.
func (s *AnswerService) Ask(ctx context.Context, req driving.AskRequest) (*domain.Answer, error) {
	logger.Section("Query")
	defer logger.Timing("Query", time.Now())

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	conversationID, history, err := s.resolveConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.retriever.Retrieve(ctx, vector, req.DocumentID)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{ConversationID: conversationID}

	if len(candidates) == 0 {
		logger.Info("No candidates retrieved, returning fallback answer")
		answer.Text = NoContextAnswer
	} else {
		ranked, err := s.reranker.Rerank(ctx, query, candidates, s.topN)
		if err != nil {
			return nil, err
		}

		prompt := composePrompt(query, history, ranked)
		logger.Debug("Prompt: %d chars, %d context chunks, %d history turns", len(prompt), len(ranked), len(history))

		text, err := s.llm.Generate(ctx, prompt, s.genOpts)
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
		answer.Text = strings.TrimSpace(text)

		if req.RequireCitations {
			answer.Citations = citationsFor(ranked)
		}
	}

	turn := domain.Turn{Query: query, Answer: answer.Text}
	if err := s.conversations.Append(ctx, conversationID, turn); err != nil {
		return nil, fmt.Errorf("record turn: %w", err)
	}

	return answer, nil
}

// resolveConversation returns the id and history for this turn. An
// empty id starts a new conversation; an unknown id is rejected, never
// silently replaced.
func (s *AnswerService) resolveConversation(ctx context.Context, id string) (string, []domain.Turn, error) {
	if id == "" {
		created, err := s.conversations.Create(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("create conversation: %w", err)
		}
		return created, nil, nil
	}

	history, err := s.conversations.History(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, history, nil
}

// composePrompt assembles the single-pass generation prompt: fixed
// instruction, context block with source prefixes, prior turns as
// labeled dialogue lines, then the current question.
func composePrompt(query string, history []domain.Turn, ranked []domain.ScoredPoint) string {
	var sb strings.Builder

	sb.WriteString(answerInstruction)
	sb.WriteString("\n\nContext:\n")
	for i, point := range ranked {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(sourceLine(point.Payload))
		sb.WriteString("\n")
		sb.WriteString(point.Payload.PageContent)
	}
	sb.WriteString("\n---\n")

	for _, turn := range history {
		sb.WriteString("User: ")
		sb.WriteString(turn.Query)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(query)
	sb.WriteString("\nAnswer:")

	return sb.String()
}

// sourceLine renders the provenance prefix for one context chunk.
func sourceLine(p domain.Payload) string {
	if p.Page != nil {
		return fmt.Sprintf("Source: %s (page %d)", p.DocumentName, *p.Page)
	}
	return fmt.Sprintf("Source: %s", p.DocumentName)
}

// citationsFor lists the (document, page) pairs of the context-shown
// chunks, deduplicated in order.
func citationsFor(ranked []domain.ScoredPoint) []domain.Citation {
	seen := make(map[string]bool, len(ranked))
	citations := make([]domain.Citation, 0, len(ranked))

	for _, point := range ranked {
		key := point.Payload.DocumentName
		if point.Payload.Page != nil {
			key = fmt.Sprintf("%s#%d", key, *point.Payload.Page)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		citations = append(citations, domain.Citation{
			DocumentName: point.Payload.DocumentName,
			Page:         point.Payload.Page,
		})
	}

	return citations
}
