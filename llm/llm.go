// Package llm defines the provider-neutral chat types. Concrete
// providers live in subpackages (groq, anthropic).
package llm

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Response is a chat completion result.
type Response struct {
	Content      string
	Model        string
	FinishReason string
}

// Provider generates chat completions from a hosted LLM API.
type Provider interface {
	// Name identifies the provider for logging and metadata.
	Name() string

	// Chat sends the request and returns the assistant's reply.
	Chat(ctx context.Context, req Request) (*Response, error)
}
