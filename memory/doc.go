// Package memory provides the vector-search-backed conversation store.
//
// Every chat turn is persisted as a (query, response, metadata) record
// with a content embedding, and can be retrieved two ways: by recency
// (History) or by similarity to a query (Search).
//
// Architecture:
//   - Store: vector storage backend (chromem-go persistent DB locally)
//   - Embedder: text-to-vector conversion (hash placeholder by default,
//     ONNX all-MiniLM behind the onnx build tag)
//   - ConversationStore: orchestrates flattening, embedding, fallback
//     and retrieval
//
// Usage model: single writer, single reader at a time. One
// ConversationStore instance owns the persistence directory for the
// lifetime of the process; opening the same directory from multiple
// processes is undefined behavior. Operations are synchronous and run
// to completion before returning.
//
// Degradation: when the backend fails, Add appends the turn to a
// line-delimited JSON fallback file instead of losing it, Search and
// History return empty results alongside the error, and the CLI keeps
// the conversation going. Records in the fallback file are write-only;
// they are not merged back into retrieval.
package memory
