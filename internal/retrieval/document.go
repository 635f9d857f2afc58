package retrieval

import (
	"context"
	"fmt"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/llm"
	"meeting-copilot/internal/vectorstore"
)

// DocumentRetriever fetches relevant passages from the document vector index.
// Embedding the query and searching the index are one logical step from the
// pipeline's point of view.
type DocumentRetriever struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
}

// NewDocumentRetriever creates a new DocumentRetriever.
func NewDocumentRetriever(embedder llm.Embedder, vectorStore vectorstore.VectorStore, collection string) *DocumentRetriever {
	return &DocumentRetriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
	}
}

// Retrieve returns the top-k passages relevant to the query, each with a
// relevance score and page locator extracted from the point payload.
func (r *DocumentRetriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	searchResults, err := r.vectorStore.Search(ctx, r.collection, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	results := make([]Result, 0, len(searchResults))
	for _, sr := range searchResults {
		content, _ := sr.Meta["content"].(string)
		filename, _ := sr.Meta["filename"].(string)
		if filename == "" {
			filename = "Unknown"
		}

		results = append(results, Result{
			Content:   content,
			Score:     float64(sr.Score),
			Source:    fmt.Sprintf("PDF: %s", filename),
			Kind:      SourcePDF,
			Filename:  filename,
			Page:      metaInt(sr.Meta, "page"),
			StartPage: metaInt(sr.Meta, "start_page"),
			EndPage:   metaInt(sr.Meta, "end_page"),
		})
	}

	logger.InfoContext(ctx, "document retrieval completed", "query", query, "results", len(results))
	return results, nil
}

// metaInt reads an integer payload field, tolerating the numeric types the
// store hands back.
func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
