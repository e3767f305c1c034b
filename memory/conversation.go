package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SearchLimitMax caps similarity search results regardless of what the
// caller asks for.
const SearchLimitMax = 10

// searchLimitDefault applies when the caller passes a non-positive limit.
const searchLimitDefault = 5

// ConversationStore is the durable, queryable log of conversation
// turns. It owns its persistence directory exclusively and is built
// with an explicit Store and Embedder; nothing here is ambient or
// global.
type ConversationStore struct {
	store    Store
	embedder Embedder
	dir      string
	log      zerolog.Logger
}

// NewConversationStore creates a ConversationStore persisting under
// dir. The caller is responsible for calling Close at end of session.
func NewConversationStore(store Store, embedder Embedder, dir string, log zerolog.Logger) *ConversationStore {
	return &ConversationStore{
		store:    store,
		embedder: embedder,
		dir:      dir,
		log:      log.With().Str("component", "memory").Logger(),
	}
}

// Add stores one conversation turn and returns its assigned ID.
//
// The query is merged into metadata under MetaQuery, a timestamp is
// stamped when the caller did not supply one, and the response text is
// embedded and upserted. When the primary backend fails the turn is
// appended to the fallback file instead and the ID is still returned;
// only total failure (backend and fallback file both failing) yields
// an empty ID together with the error. Callers must treat an empty ID
// as non-fatal: the conversation continues, just without being
// remembered.
func (c *ConversationStore) Add(ctx context.Context, query, response string, meta map[string]any) (string, error) {
	if query == "" {
		return "", errors.New("memory: empty query")
	}
	if response == "" {
		return "", errors.New("memory: empty response")
	}

	merged := make(map[string]any, len(meta)+2)
	for k, v := range meta {
		merged[k] = v
	}
	merged[MetaQuery] = query
	if _, ok := merged[MetaTimestamp]; !ok {
		merged[MetaTimestamp] = time.Now().UTC().Format(time.RFC3339)
	}
	flat := flattenMetadata(merged)

	id := uuid.New().String()

	rec := Record{
		ID:       id,
		Document: response,
		Metadata: flat,
	}

	backendErr := func() error {
		embedding, err := c.embedder.Embed(ctx, response)
		if err != nil {
			return fmt.Errorf("embed response: %w", err)
		}
		rec.Embedding = embedding
		return c.store.Upsert(ctx, rec)
	}()
	if backendErr == nil {
		return id, nil
	}

	c.log.Warn().Err(backendErr).Str("id", id).Msg("primary backend rejected turn, using fallback file")

	if err := appendFallback(c.dir, fallbackRecord{
		ID:       id,
		Query:    query,
		Response: response,
		Metadata: flat,
	}); err != nil {
		return "", fmt.Errorf("memory: store turn: %w", errors.Join(backendErr, err))
	}
	return id, nil
}

// Search embeds the query with the insertion-time embedder and returns
// up to limit stored turns ordered by ascending cosine distance. The
// limit is clamped to SearchLimitMax. An empty store yields an empty
// result and a nil error; a backend failure yields an empty result
// together with the error so callers can tell the two apart.
func (c *ConversationStore) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if query == "" {
		return nil, errors.New("memory: empty query")
	}
	if limit <= 0 {
		limit = searchLimitDefault
	}
	if limit > SearchLimitMax {
		limit = SearchLimitMax
	}

	embedding, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}

	matches, err := c.store.Query(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("memory: search: %w", err)
	}
	return matches, nil
}

// History returns the most recent turns, newest first, up to limit.
// Records without a timestamp sort last. This is a full scan followed
// by an O(n log n) sort on every call, acceptable because interactive
// single-user sessions keep conversation volumes small.
func (c *ConversationStore) History(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		return nil, nil
	}

	records, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: history: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// RFC 3339 UTC timestamps sort correctly as strings; a missing
	// timestamp compares as "" and lands at the end.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Metadata[MetaTimestamp] > records[j].Metadata[MetaTimestamp]
	})
	if len(records) > limit {
		records = records[:limit]
	}

	turns := make([]Turn, 0, len(records))
	for _, rec := range records {
		turns = append(turns, Turn{
			ID:        rec.ID,
			Query:     rec.Metadata[MetaQuery],
			Response:  rec.Document,
			Timestamp: rec.Metadata[MetaTimestamp],
		})
	}
	return turns, nil
}

// Clear deletes every stored turn. Irreversible, idempotent. The
// fallback file is left untouched.
func (c *ConversationStore) Clear(ctx context.Context) error {
	if err := c.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("memory: clear: %w", err)
	}
	return nil
}

// Persist guarantees the persistence directory exists. Writes are
// durable on every Add, so there is no buffered state to flush.
func (c *ConversationStore) Persist() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("memory: ensure persist dir: %w", err)
	}
	return nil
}

// Close releases the backend. Call it once at end of session; no
// implicit teardown happens otherwise.
func (c *ConversationStore) Close() error {
	return c.store.Close()
}
