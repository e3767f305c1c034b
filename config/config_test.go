package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"REPO_SURFER_PROVIDER",
		"GROQ_API_KEY",
		"ANTHROPIC_API_KEY",
		"REPO_SURFER_MODEL",
		"REPO_SURFER_MAX_TOKENS",
		"REPO_SURFER_HTTP_TIMEOUT",
		"REPO_SURFER_MEMORY_DIR",
		"REPO_SURFER_LOG_LEVEL",
	} {
		// Setenv registers the restore; Unsetenv makes the var truly
		// absent so the struct tag defaults apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", cfg.Model)
	assert.Equal(t, 1500, cfg.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "./chroma_db", cfg.MemoryDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REPO_SURFER_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "  sk-test  ")
	t.Setenv("REPO_SURFER_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("REPO_SURFER_MAX_TOKENS", "400")
	t.Setenv("REPO_SURFER_MEMORY_DIR", "/tmp/mem")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider, "provider is normalized to lower case")
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey, "keys are trimmed")
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
	assert.Equal(t, 400, cfg.MaxTokens)
	assert.Equal(t, "/tmp/mem", cfg.MemoryDir)
}

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"groq with key", Config{Provider: "groq", GroqAPIKey: "k"}, false},
		{"groq without key", Config{Provider: "groq"}, true},
		{"anthropic with key", Config{Provider: "anthropic", AnthropicAPIKey: "k"}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"unknown provider", Config{Provider: "openai", GroqAPIKey: "k"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProvider()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
