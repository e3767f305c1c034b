package memory

import "context"

// MetaQuery is the reserved metadata key under which the user's query
// is merged before a record is stored. Callers must not supply it.
const MetaQuery = "query"

// MetaTimestamp is the metadata key holding the record's RFC 3339 UTC
// timestamp. Defaulted at insertion time when absent.
const MetaTimestamp = "timestamp"

// Record is a stored conversation turn. The response text is the
// retrievable document; the query lives in flattened metadata under
// MetaQuery. Records are immutable after insertion.
type Record struct {
	ID        string
	Document  string
	Metadata  map[string]string
	Embedding []float32
}

// Match is a Record returned from similarity search, annotated with
// its cosine distance to the query (smaller is closer).
type Match struct {
	Record
	Distance float32
}

// Turn is one conversation exchange as returned by history retrieval.
type Turn struct {
	ID        string
	Query     string
	Response  string
	Timestamp string
}

// Store is the vector storage backend interface.
// Implementations: chromem.Store (embedded, persistent), test fakes.
type Store interface {
	// Upsert inserts or replaces a record by ID. The record must have
	// its embedding set before calling Upsert.
	Upsert(ctx context.Context, rec Record) error

	// Query returns up to limit records nearest to the embedding,
	// ordered by ascending distance. An empty store yields an empty
	// result, not an error.
	Query(ctx context.Context, embedding []float32, limit int) ([]Match, error)

	// GetAll returns every stored record. Full scan; callers own any
	// ordering.
	GetAll(ctx context.Context) ([]Record, error)

	// DeleteAll removes every record. Idempotent.
	DeleteAll(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Embedder converts text to fixed-length vector embeddings. The same
// embedder must be used at insertion and at query time; it must be
// deterministic (same text, same vector).
//
// Implementations: hash.Embedder (deterministic placeholder),
// cached.Embedder (ristretto decorator), onnx.Embedder (all-MiniLM,
// behind the onnx build tag).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
