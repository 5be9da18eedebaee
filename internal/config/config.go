package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the librarian configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	AI      AIConfig      `yaml:"ai"`
	Qdrant  QdrantConfig  `yaml:"qdrant"`
	Chat    ChatConfig    `yaml:"chat"`
	Redis   RedisConfig   `yaml:"redis"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AIConfig holds the OpenAI-compatible inference API settings.
// Chat and embeddings share one endpoint and credential.
type AIConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	ChatModel       string `yaml:"chat_model"`
	EmbeddingModel  string `yaml:"embedding_model"`
	ChatTimeoutSec  int    `yaml:"chat_timeout_sec"`  // generous: large-model latency
	EmbedTimeoutSec int    `yaml:"embed_timeout_sec"`
}

// QdrantConfig holds vector index settings.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"` // optional
	Collection string `yaml:"collection"`
	VectorSize int    `yaml:"vector_size"`
	Distance   string `yaml:"distance"` // Cosine, Euclid, Dot
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ChatConfig holds answer pipeline settings.
type ChatConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
	TopK         int    `yaml:"top_k"`
}

// RedisConfig holds chat persistence settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// IngestConfig holds corpus ingestion settings.
type IngestConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Workers   int `yaml:"workers"`
}

// DefaultSystemPrompt grounds the model strictly in the retrieved context.
const DefaultSystemPrompt = "You are a helpful AI assistant. " +
	"DO NOT reference, mention, or explain the context. " +
	"Answer the user's question strictly using the provided context only. " +
	"If the answer is not present in the context, respond with: 'I cannot answer that with the given information.' " +
	"Do not list what can or cannot be answered. " +
	"Only provide a direct and concise answer to the specific question. " +
	"Never add additional commentary, disclaimers, or summaries."

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Answer requests block on the completion API; keep headroom above
		// the chat timeout.
		c.HTTP.WriteTimeoutSec = 400
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = "llama-3-8b-instruct"
	}
	if c.AI.ChatTimeoutSec <= 0 {
		c.AI.ChatTimeoutSec = 360
	}
	if c.AI.EmbedTimeoutSec <= 0 {
		c.AI.EmbedTimeoutSec = 30
	}
	if c.Qdrant.URL == "" {
		c.Qdrant.URL = "http://localhost:6333"
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "my_documents"
	}
	if c.Qdrant.VectorSize <= 0 {
		c.Qdrant.VectorSize = 768
	}
	if c.Qdrant.Distance == "" {
		c.Qdrant.Distance = "Cosine"
	}
	if c.Qdrant.TimeoutSec <= 0 {
		c.Qdrant.TimeoutSec = 30
	}
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = DefaultSystemPrompt
	}
	if c.Chat.TopK <= 0 {
		c.Chat.TopK = 3
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "librarian:"
	}
	if c.Ingest.ChunkSize <= 0 {
		c.Ingest.ChunkSize = 10
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Qdrant.Distance {
	case "Cosine", "Euclid", "Dot":
		// ok
	default:
		return fmt.Errorf(
			"qdrant.distance must be \"Cosine\", \"Euclid\" or \"Dot\", got %q",
			c.Qdrant.Distance,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
