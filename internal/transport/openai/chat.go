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

// Chat sends role-tagged messages to the completion API and extracts the
// top-choice text. A structurally successful response without message content
// is reported as a protocol error with Raw populated, never as empty text.
func (c *Client) Chat(ctx context.Context, messages []domain.Message) (domain.Completion, error) {
	if len(messages) == 0 {
		return domain.Completion{}, fmt.Errorf("chat: messages must not be empty: %w", domain.ErrInvalidArgument)
	}

	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	start := time.Now()

	resp, err := c.chat.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.chatModel, "error").Inc()
		mapped := parseAPIError("chat completions", err)
		c.logger.Error("chat completion request failed", zap.Error(mapped))
		return domain.Completion{}, mapped
	}

	metrics.ChatRequestDuration.WithLabelValues(c.chatModel).Observe(duration.Seconds())

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.ChatRequestsTotal.WithLabelValues(c.chatModel, "error").Inc()
		c.logger.Warn("chat completion without message content",
			zap.String("model", c.chatModel))
		return domain.Completion{Raw: rawJSON(resp)},
			fmt.Errorf("chat completions: response carries no message content: %w", domain.ErrProtocol)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.chatModel, "success").Inc()

	return domain.Completion{
		Content: resp.Choices[0].Message.Content,
		Raw:     rawJSON(resp),
	}, nil
}
