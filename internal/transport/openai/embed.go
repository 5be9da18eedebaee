package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
	"github.com/kailas-cloud/librarian/internal/metrics"
)

// Embed turns text into a fixed-length vector. A single attempt, no retries.
func (c *Client) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if c.embeddingModel == "" {
		return nil, fmt.Errorf("embedding model missing: %w", domain.ErrNotConfigured)
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(c.embeddingModel),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()

	resp, err := c.embed.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(c.embeddingModel, "error").Inc()
		mapped := parseAPIError("embeddings", err)
		c.logger.Error("embedding request failed", zap.Error(mapped))
		return nil, mapped
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(c.embeddingModel, "error").Inc()
		return nil, fmt.Errorf("embeddings: response carries no vector: %w", domain.ErrProtocol)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(c.embeddingModel, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(c.embeddingModel).Observe(duration.Seconds())

	return domain.Vector(resp.Data[0].Embedding), nil
}
