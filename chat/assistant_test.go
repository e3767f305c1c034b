package chat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onceagainarise/repo-surfer/llm"
	"github.com/onceagainarise/repo-surfer/memory"
	"github.com/onceagainarise/repo-surfer/memory/embedder/hash"
	"github.com/onceagainarise/repo-surfer/memory/store/chromem"
)

// fakeProvider returns a fixed reply and captures each request.
type fakeProvider struct {
	reply    string
	requests []llm.Request
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Chat(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	return &llm.Response{Content: p.reply, Model: req.Model, FinishReason: "stop"}, nil
}

func newTestAssistant(t *testing.T, provider llm.Provider) (*Assistant, *memory.ConversationStore) {
	t.Helper()

	embedder := hash.New()
	backend, err := chromem.New(chromem.Config{
		Dir:        t.TempDir(),
		Dimensions: embedder.Dimensions(),
	}, zerolog.Nop())
	require.NoError(t, err)

	store := memory.NewConversationStore(backend, embedder, t.TempDir(), zerolog.Nop())
	t.Cleanup(func() { store.Close() })

	return New(provider, store, "test-model", 256, zerolog.Nop()), store
}

func TestChatReturnsReply(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{reply: "the entry point is main.go"}
	a, _ := newTestAssistant(t, provider)

	reply, err := a.Chat(ctx, "where does execution start?")
	require.NoError(t, err)
	assert.Equal(t, "the entry point is main.go", reply)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, 256, req.MaxTokens)
	require.Len(t, req.Messages, 2, "first turn has no history message")
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
	assert.Equal(t, "where does execution start?", req.Messages[1].Content)
}

func TestChatRecordsTurn(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{reply: "an answer"}
	a, store := newTestAssistant(t, provider)

	_, err := a.Chat(ctx, "a question")
	require.NoError(t, err)

	turns, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "a question", turns[0].Query)
	assert.Equal(t, "an answer", turns[0].Response)
}

func TestChatInjectsHistory(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{reply: "second answer"}
	a, _ := newTestAssistant(t, provider)

	provider.reply = "first answer"
	_, err := a.Chat(ctx, "first question")
	require.NoError(t, err)

	provider.reply = "second answer"
	_, err = a.Chat(ctx, "second question")
	require.NoError(t, err)

	require.Len(t, provider.requests, 2)
	second := provider.requests[1]
	require.Len(t, second.Messages, 3, "second turn carries a history message")
	assert.Equal(t, llm.RoleSystem, second.Messages[1].Role)
	assert.Contains(t, second.Messages[1].Content, "User: first question")
	assert.Contains(t, second.Messages[1].Content, "Assistant: first answer")
	assert.Equal(t, "second question", second.Messages[2].Content)
}

func TestExplainFile(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{reply: "  this script prints a greeting  "}
	a, store := newTestAssistant(t, provider)

	path := filepath.Join(t.TempDir(), "greet.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	explanation, err := a.ExplainFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "this script prints a greeting", explanation)

	require.Len(t, provider.requests, 1)
	prompt := provider.requests[0].Messages[1].Content
	assert.Contains(t, prompt, "greet.go")
	assert.Contains(t, prompt, "package main")

	turns, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "explain greet.go", turns[0].Query)
}

func TestExplainFileMissing(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeProvider{})

	_, err := a.ExplainFile(context.Background(), filepath.Join(t.TempDir(), "absent.go"))
	assert.Error(t, err)
}

func TestExplainFileDirectory(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeProvider{})

	_, err := a.ExplainFile(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestReadFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, maxFileBytes+1), 0o644))

	_, err := readFile(path)
	assert.Error(t, err)
}
