package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks meeting-copilot/internal/vectorstore VectorStore

import "context"

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector index operations.
// The answer pipeline only reads from the index; ingestion is owned by a
// separate uploader service that shares the collection.
type VectorStore interface {
	// Search performs a similarity search and returns the top k results.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
