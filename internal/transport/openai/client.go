// Package openai implements the embedding and chat-completion clients against
// an OpenAI-compatible inference API (e.g. Nebius, Together, vLLM).
package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Config holds the inference API settings. Chat and embeddings share one
// endpoint and credential but use separate timeouts: completions on large
// models can run minutes, embeddings should not.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	ChatTimeout    time.Duration
	EmbedTimeout   time.Duration
	Logger         *zap.Logger
}

// Client talks to the OpenAI-compatible API. Safe for concurrent use;
// all state is read-only after construction.
type Client struct {
	chat           *openai.Client
	embed          *openai.Client
	chatModel      string
	embeddingModel string
	logger         *zap.Logger
}

// New creates an inference API client. Missing credentials or endpoint are a
// configuration error surfaced here, before any network call.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("inference API key or base URL missing: %w", domain.ErrNotConfigured)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 360 * time.Second
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = 30 * time.Second
	}

	chatCfg := openai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = cfg.BaseURL
	chatCfg.HTTPClient = &http.Client{Timeout: cfg.ChatTimeout}

	embedCfg := openai.DefaultConfig(cfg.APIKey)
	embedCfg.BaseURL = cfg.BaseURL
	embedCfg.HTTPClient = &http.Client{Timeout: cfg.EmbedTimeout}

	return &Client{
		chat:           openai.NewClientWithConfig(chatCfg),
		embed:          openai.NewClientWithConfig(embedCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger,
	}, nil
}

// parseAPIError maps a go-openai error to the failure taxonomy: errors that
// carry an HTTP status become RemoteError, everything else (the request never
// produced a status) becomes ErrConnection.
func parseAPIError(service string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewRemoteError(service, reqErr.HTTPStatusCode, reqErr.Body)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewRemoteError(service, apiErr.HTTPStatusCode, []byte(apiErr.Message))
	}

	return fmt.Errorf("%s: %w: %w", service, domain.ErrConnection, err)
}

// rawJSON renders v for diagnostic fallback when content extraction fails.
func rawJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
