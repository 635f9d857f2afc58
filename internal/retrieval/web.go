package retrieval

import (
	"context"
	"fmt"
	"strings"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/extract"
	"meeting-copilot/internal/websearch"
)

// WebRetriever fetches relevant snippets from a web search provider.
type WebRetriever struct {
	searcher websearch.Searcher
}

// NewWebRetriever creates a new WebRetriever.
func NewWebRetriever(searcher websearch.Searcher) *WebRetriever {
	return &WebRetriever{searcher: searcher}
}

// Retrieve returns up to k web snippets for the query. When background text
// is supplied, up to 3 of its keywords are appended to the query to anchor
// the search in the conversation's subject.
func (r *WebRetriever) Retrieve(ctx context.Context, query, background string, k int) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	searchQuery := query
	if background != "" {
		keywords := extract.ExtractKeywords(background, 3)
		if len(keywords) > 0 {
			searchQuery = fmt.Sprintf("%s %s", query, strings.Join(keywords, " "))
		}
	}

	hits, err := r.searcher.Search(ctx, searchQuery, k)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			Content: hit.Snippet,
			Score:   float64(hit.Score),
			Source:  hit.Source,
			Kind:    SourceWeb,
			Title:   hit.Title,
			URL:     hit.URL,
		})
	}

	logger.InfoContext(ctx, "web retrieval completed", "query", searchQuery, "results", len(results))
	return results, nil
}
