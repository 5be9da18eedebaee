package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/domain"
	"github.com/kailas-cloud/librarian/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterRemoteMetrics()
	os.Exit(m.Run())
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		ChatModel:      "test-chat-model",
		EmbeddingModel: "test-embedding-model",
		ChatTimeout:    5 * time.Second,
		EmbedTimeout:   5 * time.Second,
		Logger:         zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(Config{BaseURL: "http://localhost"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	_, err = New(Config{APIKey: "key"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestEmbed(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-embedding-model",
			"data": []map[string]any{
				{"object": "embedding", "embedding": expectedVec, "index": 0},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	vec, err := c.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != len(expectedVec) {
		t.Fatalf("expected %d dimensions, got %d", len(expectedVec), len(vec))
	}
	for i, v := range vec {
		if v != expectedVec[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, v, expectedVec[i])
		}
	}
}

func TestEmbed_MissingModelIsConfigError(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if called {
		t.Error("no network call should happen without an embedding model")
	}
}

func TestEmbed_RemoteFailureCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrRemoteService) {
		t.Fatalf("expected ErrRemoteService, got %v", err)
	}

	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %T", err)
	}
	if remote.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, expected 500", remote.Status)
	}
}

func TestEmbed_EmptyDataIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestEmbed_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := newTestClient(t, server.URL)

	_, err := c.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-chat-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-chat-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "grounded answer"},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	res, err := c.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "be grounded"},
		{Role: domain.RoleUser, Content: "question"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if res.Content != "grounded answer" {
		t.Errorf("Content = %q", res.Content)
	}
	if res.Raw == "" {
		t.Error("Raw payload should be preserved")
	}
}

func TestChat_EmptyMessages(t *testing.T) {
	c := newTestClient(t, "http://localhost:0")

	_, err := c.Chat(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestChat_MissingContentIsProtocolErrorWithRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-2",
			"object":  "chat.completion",
			"choices": []any{},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	res, err := c.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "q"}})
	if !errors.Is(err, domain.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if res.Raw == "" {
		t.Error("Raw payload must survive for diagnostic fallback")
	}
}

func TestChat_RemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "q"}})
	if !errors.Is(err, domain.ErrRemoteService) {
		t.Fatalf("expected ErrRemoteService, got %v", err)
	}
}
