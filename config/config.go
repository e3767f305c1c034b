package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for repo-surfer.
type Config struct {
	// LLM provider selection: "groq" or "anthropic".
	Provider string `env:"REPO_SURFER_PROVIDER" envDefault:"groq"`

	// Provider credentials.
	GroqAPIKey      string `env:"GROQ_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Model served by the selected provider.
	Model     string `env:"REPO_SURFER_MODEL" envDefault:"deepseek-r1-distill-llama-70b"`
	MaxTokens int    `env:"REPO_SURFER_MAX_TOKENS" envDefault:"1500"`

	// HTTPTimeout bounds every outbound LLM and GitHub API call.
	HTTPTimeout time.Duration `env:"REPO_SURFER_HTTP_TIMEOUT" envDefault:"60s"`

	// MemoryDir is the on-disk directory for the conversation memory
	// store. One process at a time may own it.
	MemoryDir string `env:"REPO_SURFER_MEMORY_DIR" envDefault:"./chroma_db"`

	// EmbeddingCacheSize caps the embedding cache in entries.
	EmbeddingCacheSize int64 `env:"REPO_SURFER_EMBED_CACHE_SIZE" envDefault:"4096"`

	LogLevel string `env:"REPO_SURFER_LOG_LEVEL" envDefault:"info"`

	// GitHubToken is optional; unauthenticated API calls are rate limited.
	GitHubToken string `env:"GITHUB_TOKEN"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.GroqAPIKey = strings.TrimSpace(cfg.GroqAPIKey)
	cfg.AnthropicAPIKey = strings.TrimSpace(cfg.AnthropicAPIKey)
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	return cfg, nil
}

// ValidateProvider checks that the selected provider has credentials.
// Commands that never reach the LLM skip this so that tree and clone
// operations work without any API key.
func (c *Config) ValidateProvider() error {
	switch c.Provider {
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when REPO_SURFER_PROVIDER is %q", c.Provider)
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when REPO_SURFER_PROVIDER is %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q (want groq or anthropic)", c.Provider)
	}
	return nil
}
