// Package chat orchestrates the assistant: it joins the LLM provider
// and the conversation memory store into a single conversational
// surface for the CLI.
package chat

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/onceagainarise/repo-surfer/llm"
	"github.com/onceagainarise/repo-surfer/memory"
)

// maxFileBytes caps the size of files sent for explanation.
const maxFileBytes = 1 << 20

// historyTurns is how many past turns get injected into each prompt.
const historyTurns = 5

const systemPrompt = "You are a helpful AI assistant for a code repository. " +
	"You are having a conversation with the user. Below is the conversation history, " +
	"followed by the user's latest message. Please respond appropriately, " +
	"maintaining context from the entire conversation. " +
	"If the user refers to previous messages or context, be sure to acknowledge and address those references."

// Assistant answers chat messages and file explanation requests,
// remembering every exchange in the conversation store.
type Assistant struct {
	provider  llm.Provider
	store     *memory.ConversationStore
	model     string
	maxTokens int
	log       zerolog.Logger
}

// New creates an Assistant. The memory store is passed explicitly; the
// assistant never constructs its own.
func New(provider llm.Provider, store *memory.ConversationStore, model string, maxTokens int, log zerolog.Logger) *Assistant {
	return &Assistant{
		provider:  provider,
		store:     store,
		model:     model,
		maxTokens: maxTokens,
		log:       log.With().Str("component", "chat").Logger(),
	}
}

// Chat sends a message to the LLM with recent history as context and
// records the exchange. A memory failure degrades to a warning; the
// reply is still returned.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	history, err := a.store.History(ctx, historyTurns)
	if err != nil {
		a.log.Warn().Err(err).Msg("could not load conversation history")
	}
	if len(history) > 0 {
		var summary strings.Builder
		// History arrives newest first; replay it oldest first.
		for i := len(history) - 1; i >= 0; i-- {
			fmt.Fprintf(&summary, "User: %s\nAssistant: %s\n", history[i].Query, history[i].Response)
		}
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: "Conversation history so far:\n" + summary.String(),
		})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := a.provider.Chat(ctx, llm.Request{
		Model:     a.model,
		Messages:  messages,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	a.remember(ctx, message, resp.Content)
	return resp.Content, nil
}

// ExplainFile asks the LLM to explain the contents of a local file.
func (a *Assistant) ExplainFile(ctx context.Context, path string) (string, error) {
	content, err := readFile(path)
	if err != nil {
		return "", err
	}

	prompt := explainPrompt(path, content)
	resp, err := a.provider.Chat(ctx, llm.Request{
		Model: a.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a helpful AI assistant."},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("explain %s: %w", filepath.Base(path), err)
	}

	a.remember(ctx, "explain "+filepath.Base(path), resp.Content)
	return strings.TrimSpace(resp.Content), nil
}

// remember stores one turn. Memory degradation is never fatal to the
// conversation; an empty ID means the turn was not persisted anywhere.
func (a *Assistant) remember(ctx context.Context, query, response string) {
	id, err := a.store.Add(ctx, query, response, map[string]any{
		"model":    a.model,
		"provider": a.provider.Name(),
	})
	if err != nil || id == "" {
		a.log.Warn().Err(err).Msg("turn was not remembered")
	}
}

func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("read %s: is a directory", path)
	}
	if info.Size() > maxFileBytes {
		return "", fmt.Errorf("read %s: file exceeds %d bytes", path, maxFileBytes)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(content), nil
}

func explainPrompt(path, content string) string {
	ext := strings.ToLower(filepath.Ext(path))
	fileType := mime.TypeByExtension(ext)
	if fileType == "" {
		fileType = "unknown"
	}

	return fmt.Sprintf(`I need you to explain the following file: %s
File type: %s (%s)

The file content is:
%s

Please provide a detailed explanation of what this file does, including:
1. The purpose of the file
2. Key functions/classes and their roles
3. Important variables and their purposes
4. Any notable patterns or design decisions
5. Dependencies or requirements

Format your response in clear, well-structured markdown.
`, filepath.Base(path), fileType, ext, content)
}
