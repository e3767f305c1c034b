// Package chromem backs the conversation memory store with chromem-go,
// a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog"

	"github.com/onceagainarise/repo-surfer/memory"
)

// collectionName is the single collection holding every conversation
// turn. Cosine similarity is chromem's default and the required metric.
const collectionName = "conversation_memory"

// Config configures the chromem store.
type Config struct {
	// Dir is the persistence directory. Empty means in-memory only.
	Dir string

	// Dimensions is the embedding vector size, needed for the GetAll
	// probe vector.
	Dimensions int
}

// Store implements memory.Store on top of chromem-go. Embeddings are
// provided by the caller; chromem's own embedding functions are never
// invoked.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimensions int
	mu         sync.RWMutex
}

// New opens (or creates) the persistent database under cfg.Dir. When
// persistent storage cannot be opened, it degrades to an in-memory
// database rather than failing: conversation flow beats durability
// here, and the caller's fallback file still catches writes.
func New(cfg Config, log zerolog.Logger) (*Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("chromem: dimensions must be positive, got %d", cfg.Dimensions)
	}

	var db *chromem.DB
	if cfg.Dir != "" {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Dir, false)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Dir).
				Msg("persistent vector store unavailable, falling back to in-memory")
			db = chromem.NewDB()
		}
	} else {
		db = chromem.NewDB()
	}

	// nil embedding func: documents always arrive with embeddings set.
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}

	return &Store{
		db:         db,
		collection: col,
		dimensions: cfg.Dimensions,
	}, nil
}

// Upsert inserts or replaces a record by ID.
func (s *Store) Upsert(ctx context.Context, rec memory.Record) error {
	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Document,
		Embedding: rec.Embedding,
		Metadata:  rec.Metadata,
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("chromem: add document: %w", err)
	}
	return nil
}

// Query returns up to limit nearest records by cosine distance,
// closest first. chromem rejects result counts above the collection
// size, so the limit is clamped to Count before querying.
func (s *Store) Query(ctx context.Context, embedding []float32, limit int) ([]memory.Match, error) {
	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()

	if n := col.Count(); n < limit {
		limit = n
	}
	if limit == 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	matches := make([]memory.Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, memory.Match{
			Record: memory.Record{
				ID:        res.ID,
				Document:  res.Content,
				Metadata:  res.Metadata,
				Embedding: res.Embedding,
			},
			// chromem reports cosine similarity in [-1, 1].
			Distance: 1 - res.Similarity,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

// GetAll returns every stored record. chromem-go exposes no
// list-documents API, so this runs a nearest-neighbor query with a
// fixed probe vector and nResults equal to the collection size, which
// visits every document.
func (s *Store) GetAll(ctx context.Context) ([]memory.Record, error) {
	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()

	n := col.Count()
	if n == 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, s.probeVector(), n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: scan: %w", err)
	}

	records := make([]memory.Record, 0, len(results))
	for _, res := range results {
		records = append(records, memory.Record{
			ID:        res.ID,
			Document:  res.Content,
			Metadata:  res.Metadata,
			Embedding: res.Embedding,
		})
	}
	return records, nil
}

// DeleteAll drops the collection and recreates it empty. Idempotent:
// deleting an already-empty collection succeeds.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("chromem: delete collection: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("chromem: recreate collection: %w", err)
	}
	s.collection = col
	return nil
}

// Close releases resources. chromem persists on every write, so there
// is nothing to flush.
func (s *Store) Close() error {
	return nil
}

// probeVector is an arbitrary unit vector used for full scans. Cosine
// similarity against it is meaningless but well defined, which is all
// GetAll needs.
func (s *Store) probeVector() []float32 {
	v := make([]float32, s.dimensions)
	component := float32(1 / math.Sqrt(float64(s.dimensions)))
	for i := range v {
		v[i] = component
	}
	return v
}
