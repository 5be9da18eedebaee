// Package answer implements the retrieval-augmented answer pipeline:
// question → embed → search → context assembly → prompt → completion.
package answer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Config holds pipeline settings.
type Config struct {
	Collection   string
	TopK         int
	SystemPrompt string
	Logger       *zap.Logger
}

// Service orchestrates one question end-to-end. Strictly sequential per
// request; no step is skipped or reordered. Safe for concurrent requests:
// all fields are read-only after construction.
type Service struct {
	embed        Embedder
	search       Searcher
	complete     Completer
	turns        TurnStore
	collection   string
	topK         int
	systemPrompt string
	logger       *zap.Logger
}

// New creates the answer service.
func New(embed Embedder, search Searcher, complete Completer, turns TurnStore, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		embed:        embed,
		search:       search,
		complete:     complete,
		turns:        turns,
		collection:   cfg.Collection,
		topK:         topK,
		systemPrompt: cfg.SystemPrompt,
		logger:       logger,
	}
}

// Answer runs the pipeline for one question within a chat session. The user
// turn is persisted before any remote call; the assistant turn (answer or
// canned failure message, with error metadata on failure) is persisted before
// returning. Remote failures are folded into the outcome; the returned error
// reports persistence problems only.
func (s *Service) Answer(ctx context.Context, chatID, question string) (domain.Outcome, error) {
	if question == "" {
		return domain.Outcome{}, fmt.Errorf("question must not be empty: %w", domain.ErrInvalidArgument)
	}

	if _, err := s.turns.AppendTurn(ctx, chatID, domain.RoleUser, question, nil); err != nil {
		return domain.Outcome{}, fmt.Errorf("store user turn: %w", err)
	}

	outcome := s.run(ctx, question)

	var metadata map[string]any
	if outcome.Status.Failed() {
		metadata = map[string]any{"error": string(outcome.Status)}
		if outcome.Raw != "" {
			metadata["raw_response"] = outcome.Raw
		}
	}
	if _, err := s.turns.AppendTurn(ctx, chatID, domain.RoleAssistant, outcome.Answer, metadata); err != nil {
		return outcome, fmt.Errorf("store assistant turn: %w", err)
	}

	return outcome, nil
}

// run executes the Embedding → Searching → AssemblingContext → Generating
// sequence and maps every terminal state to one user-visible outcome.
func (s *Service) run(ctx context.Context, question string) domain.Outcome {
	vector, err := s.embed.Embed(ctx, question)
	if err != nil {
		s.logger.Error("question embedding failed", zap.Error(err))
		return domain.Outcome{Status: domain.StatusEmbeddingFailed, Answer: domain.MsgEmbeddingFailed}
	}

	hits, err := s.search.Search(ctx, s.collection, vector, domain.SearchParams{Limit: s.topK})
	if err != nil {
		s.logger.Error("similarity search failed",
			zap.String("collection", s.collection),
			zap.Error(err),
		)
		return domain.Outcome{Status: domain.StatusSearchFailed, Answer: domain.MsgSearchFailed}
	}

	if len(hits) == 0 {
		s.logger.Info("no relevant documents found", zap.String("collection", s.collection))
		return domain.Outcome{Status: domain.StatusNoResults, Answer: domain.MsgNoResults}
	}

	contextBlock := BuildContext(hits)
	if contextBlock == "" {
		s.logger.Info("retrieved documents carry no usable content",
			zap.String("collection", s.collection),
			zap.Int("hits", len(hits)),
		)
		return domain.Outcome{Status: domain.StatusNoContext, Answer: domain.MsgNoContext}
	}

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: s.systemPrompt},
		{Role: domain.RoleUser, Content: buildUserPrompt(contextBlock, question)},
	}

	completion, err := s.complete.Chat(ctx, messages)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		if errors.Is(err, domain.ErrProtocol) && completion.Raw != "" {
			// Structurally successful response without extractable content:
			// surface the raw payload instead of fabricating an answer.
			return domain.Outcome{
				Status: domain.StatusGenerationFailed,
				Answer: domain.MsgGenerationFailed,
				Raw:    completion.Raw,
			}
		}
		return domain.Outcome{Status: domain.StatusGenerationFailed, Answer: domain.MsgGenerationFailed}
	}

	return domain.Outcome{Status: domain.StatusAnswered, Answer: completion.Content}
}

// buildUserPrompt places the grounding context ahead of the literal question.
func buildUserPrompt(contextBlock, question string) string {
	return "Context:\n---\n" + contextBlock + "\n---\n\nQuestion: " + question
}
