package websearch

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks meeting-copilot/internal/websearch Searcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Result represents a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string
	Score   float32
}

// Searcher is the web search capability consumed by the web retriever.
type Searcher interface {
	// Search returns up to maxResults hits for the query.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// TavilyClient implements Searcher against the Tavily search API.
type TavilyClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

var _ Searcher = (*TavilyClient)(nil)

// NewTavilyClient creates a new Tavily search client.
func NewTavilyClient(baseURL, apiKey string) *TavilyClient {
	return &TavilyClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  http.DefaultClient,
	}
}

// tavilySearchRequest represents the request payload for the Tavily search API.
type tavilySearchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeImages     bool   `json:"include_images"`
	IncludeRawContent bool   `json:"include_raw_content"`
	MaxResults        int    `json:"max_results"`
}

// tavilySearchResponse represents the response from the Tavily search API.
type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float32 `json:"score"`
	} `json:"results"`
}

// Search performs a basic-depth Tavily search.
// A client without an API key is treated as a disabled provider and returns no results.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if c.APIKey == "" {
		return []Result{}, nil
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("maxResults must be greater than 0")
	}

	endpoint := fmt.Sprintf("%s/search", c.BaseURL)

	payload := tavilySearchRequest{
		APIKey:      c.APIKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var searchResp tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(searchResp.Results))
	for i, r := range searchResp.Results {
		title := r.Title
		if title == "" {
			title = fmt.Sprintf("Result %d", i+1)
		}
		score := r.Score
		if score == 0 {
			score = 0.8
		}
		results = append(results, Result{
			Title:   title,
			URL:     r.URL,
			Snippet: r.Content,
			Source:  sourceLabel(r.URL),
			Score:   score,
		})
	}

	return results, nil
}

// sourceLabel renders a display label for a hit, e.g. "Web: example.com".
func sourceLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "Web"
	}
	return fmt.Sprintf("Web: %s", parsed.Hostname())
}
