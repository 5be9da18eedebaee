package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.AI.ChatTimeoutSec != 360 {
		t.Errorf("AI.ChatTimeoutSec = %d, expected 360", cfg.AI.ChatTimeoutSec)
	}
	if cfg.Qdrant.URL != "http://localhost:6333" {
		t.Errorf("Qdrant.URL = %q", cfg.Qdrant.URL)
	}
	if cfg.Qdrant.Collection != "my_documents" {
		t.Errorf("Qdrant.Collection = %q", cfg.Qdrant.Collection)
	}
	if cfg.Qdrant.VectorSize != 768 {
		t.Errorf("Qdrant.VectorSize = %d, expected 768", cfg.Qdrant.VectorSize)
	}
	if cfg.Qdrant.Distance != "Cosine" {
		t.Errorf("Qdrant.Distance = %q", cfg.Qdrant.Distance)
	}
	if cfg.Chat.TopK != 3 {
		t.Errorf("Chat.TopK = %d, expected 3", cfg.Chat.TopK)
	}
	if cfg.Chat.SystemPrompt == "" {
		t.Error("Chat.SystemPrompt should default to the grounding prompt")
	}
	if cfg.Ingest.ChunkSize != 10 {
		t.Errorf("Ingest.ChunkSize = %d, expected 10", cfg.Ingest.ChunkSize)
	}
	if cfg.Ingest.Workers != 1 {
		t.Errorf("Ingest.Workers = %d, expected 1", cfg.Ingest.Workers)
	}
}

func TestValidate_InvalidDistance(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Qdrant.Distance = "Manhattan"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid distance metric")
	}

	expected := `qdrant.distance must be "Cosine", "Euclid" or "Dot", got "Manhattan"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidDistances(t *testing.T) {
	for _, d := range []string{"Cosine", "Euclid", "Dot"} {
		t.Run("distance="+d, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			cfg.Qdrant.Distance = d

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid distance %q: %v", d, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LIBRARIAN_TEST_KEY", "secret")

	in := []byte("api_key: ${LIBRARIAN_TEST_KEY}\nurl: ${LIBRARIAN_TEST_URL:-http://localhost:6333}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nurl: http://localhost:6333\n" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
