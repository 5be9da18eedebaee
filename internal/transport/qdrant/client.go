// Package qdrant implements a REST client for a Qdrant-compatible vector
// index: collection management, similarity search, and batched upsert.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
	"github.com/kailas-cloud/librarian/internal/metrics"
)

// Config holds connection parameters for the vector index.
type Config struct {
	URL     string
	APIKey  string // optional
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client talks to the vector index over HTTP/JSON. Safe for concurrent use;
// all state is read-only after construction.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a vector index client. A missing URL is a configuration error
// surfaced here, before any network call.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("vector index URL missing: %w", domain.ErrNotConfigured)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// CreateCollection creates a named collection with the given vector size and
// distance metric. Idempotent PUT semantics: repeating the call with the same
// parameters succeeds.
func (c *Client) CreateCollection(ctx context.Context, name string, vectorSize int, distance domain.Distance) error {
	if name == "" {
		return fmt.Errorf("collection name must not be empty: %w", domain.ErrInvalidArgument)
	}
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d: %w", vectorSize, domain.ErrInvalidArgument)
	}
	if !distance.Valid() {
		return fmt.Errorf("unknown distance metric %q: %w", distance, domain.ErrInvalidArgument)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": distance,
		},
	}

	if err := c.do(ctx, "create_collection", http.MethodPut, "/collections/"+name, body, nil); err != nil {
		return err
	}

	c.logger.Info("collection created or updated",
		zap.String("collection", name),
		zap.Int("vector_size", vectorSize),
		zap.String("distance", string(distance)),
	)
	return nil
}

type queryRequest struct {
	Query          domain.Vector  `json:"query"`
	Limit          int            `json:"limit"`
	WithPayload    bool           `json:"with_payload"`
	WithVector     bool           `json:"with_vector"`
	ScoreThreshold *float64       `json:"score_threshold,omitempty"`
	Filter         map[string]any `json:"filter,omitempty"`
}

type queryResponse struct {
	Result *struct {
		Points []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	} `json:"result"`
}

// Search runs a similarity query and returns hits in the order the index
// produced them (descending score). Zero hits is a valid empty success; a
// response without the result container is a protocol error.
func (c *Client) Search(ctx context.Context, collection string, vector domain.Vector, params domain.SearchParams) ([]domain.SearchHit, error) {
	if params.Limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d: %w", params.Limit, domain.ErrInvalidArgument)
	}

	req := queryRequest{
		Query:          vector,
		Limit:          params.Limit,
		WithPayload:    true,
		WithVector:     false,
		ScoreThreshold: params.ScoreThreshold,
		Filter:         params.Filter,
	}

	var resp queryResponse
	if err := c.do(ctx, "search", http.MethodPost, "/collections/"+collection+"/points/query", req, &resp); err != nil {
		return nil, err
	}

	if resp.Result == nil {
		return nil, fmt.Errorf("search response missing result: %w", domain.ErrProtocol)
	}

	hits := make([]domain.SearchHit, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		hits = append(hits, domain.SearchHit{ID: normalizeID(p.ID), Score: p.Score, Payload: p.Payload})
	}

	c.logger.Debug("search completed",
		zap.String("collection", collection),
		zap.Int("hits", len(hits)),
	)
	return hits, nil
}

// UpsertPoints writes points with overwrite-by-id semantics. Failures are
// returned, never swallowed: callers decide whether to continue batching.
func (c *Client) UpsertPoints(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return fmt.Errorf("points must not be empty: %w", domain.ErrInvalidArgument)
	}

	body := map[string]any{"points": points}
	if err := c.do(ctx, "upsert", http.MethodPut, "/collections/"+collection+"/points", body, nil); err != nil {
		return err
	}

	c.logger.Debug("points upserted",
		zap.String("collection", collection),
		zap.Int("count", len(points)),
	)
	return nil
}

// normalizeID turns integral JSON numbers back into integers. Point ids are
// ints or UUID strings; json decodes every number into float64.
func normalizeID(id any) any {
	if f, ok := id.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return id
}

// Ping checks that the index answers at all. Used by health checks only.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/collections", nil, nil)
}

// do sends one JSON request. Transport failures map to ErrConnection (the
// index never executed the request), non-2xx statuses to RemoteError with the
// body captured for diagnostics.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	start := time.Now()

	resp, err := c.http.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.VectorStoreRequestsTotal.WithLabelValues(op, "error").Inc()
		mapped := fmt.Errorf("qdrant %s: %w: %w", op, domain.ErrConnection, err)
		c.logger.Error("vector index unreachable", zap.String("op", op), zap.Error(err))
		return mapped
	}
	defer resp.Body.Close()

	metrics.VectorStoreRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.VectorStoreRequestsTotal.WithLabelValues(op, "error").Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		c.logger.Error("vector index request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return domain.NewRemoteError("qdrant "+op, resp.StatusCode, raw)
	}

	metrics.VectorStoreRequestsTotal.WithLabelValues(op, "success").Inc()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, domain.ErrProtocol)
		}
	}
	return nil
}
