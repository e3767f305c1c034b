// Package cmd wires the repo-surfer CLI commands.
package cmd

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onceagainarise/repo-surfer/chat"
	"github.com/onceagainarise/repo-surfer/config"
	"github.com/onceagainarise/repo-surfer/llm"
	anthropicllm "github.com/onceagainarise/repo-surfer/llm/anthropic"
	"github.com/onceagainarise/repo-surfer/llm/groq"
	"github.com/onceagainarise/repo-surfer/logger"
	"github.com/onceagainarise/repo-surfer/memory"
	"github.com/onceagainarise/repo-surfer/memory/embedder/cached"
	"github.com/onceagainarise/repo-surfer/memory/embedder/hash"
	chromemstore "github.com/onceagainarise/repo-surfer/memory/store/chromem"
)

var debug bool

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "repo-surfer",
		Short:         "AI-powered GitHub repository analyzer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(cloneCmd())
	cmd.AddCommand(structureCmd())
	cmd.AddCommand(explainCmd())
	cmd.AddCommand(chatCmd())
	cmd.AddCommand(memoryCmd())
	return cmd
}

// app carries per-invocation configuration and the logger.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func loadApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return &app{cfg: cfg, log: logger.New(cfg)}, nil
}

// memoryStore builds the conversation store: hash embedder behind a
// ristretto cache, chromem persistence under the configured directory.
func (a *app) memoryStore() (*memory.ConversationStore, error) {
	embedder, err := cached.New(hash.New(), a.cfg.EmbeddingCacheSize)
	if err != nil {
		return nil, err
	}

	store, err := chromemstore.New(chromemstore.Config{
		Dir:        a.cfg.MemoryDir,
		Dimensions: embedder.Dimensions(),
	}, a.log)
	if err != nil {
		return nil, err
	}

	conv := memory.NewConversationStore(store, embedder, a.cfg.MemoryDir, a.log)
	if err := conv.Persist(); err != nil {
		return nil, err
	}
	return conv, nil
}

// assistant builds the chat assistant against the configured provider.
func (a *app) assistant(store *memory.ConversationStore) (*chat.Assistant, error) {
	if err := a.cfg.ValidateProvider(); err != nil {
		return nil, err
	}

	var provider llm.Provider
	switch a.cfg.Provider {
	case "anthropic":
		provider = anthropicllm.New(a.cfg.AnthropicAPIKey)
	default:
		provider = groq.New(a.cfg.GroqAPIKey,
			groq.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}))
	}
	return chat.New(provider, store, a.cfg.Model, a.cfg.MaxTokens, a.log), nil
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
