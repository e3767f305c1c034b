// Package anthropic implements llm.Provider on the official Anthropic
// SDK.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/onceagainarise/repo-surfer/llm"
)

// Client wraps the Anthropic Messages API.
type Client struct {
	client sdk.Client
}

// New creates an Anthropic provider.
func New(apiKey string) *Client {
	return &Client{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "anthropic"
}

// Chat sends a chat completion request. System messages become the
// request's system prompt; the rest map to user/assistant turns.
func (c *Client) Chat(ctx context.Context, req llm.Request) (*llm.Response, error) {
	var system []sdk.TextBlockParam
	var messages []sdk.MessageParam
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: msg.Content})
		case llm.RoleAssistant:
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(msg.Content)))
		}
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("anthropic: no user messages in request")
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
		System:    system,
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &llm.Response{
		Content:      text.String(),
		Model:        string(resp.Model),
		FinishReason: string(resp.StopReason),
	}, nil
}
