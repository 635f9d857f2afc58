package extract

import "context"

// Question is a candidate question pulled out of a transcript.
type Question struct {
	// Question is the extracted question text.
	Question string `json:"question"`
	// Context is a brief excerpt surrounding the question.
	Context string `json:"context"`
	// Confidence is the extractor's confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Strategy is one level of the extraction fallback chain. Extract returns
// nil when the strategy finds no candidate; an error means the strategy
// itself failed (e.g. the remote call), which the chain treats the same way.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string
	// MinConfidence is the acceptance threshold for this strategy's candidates.
	MinConfidence float64
	// Extract attempts to pull a question out of the transcript.
	Extract func(ctx context.Context, transcript string) (*Question, error)
}

// QueryResult is the outcome of running the full extraction chain.
type QueryResult struct {
	// Query is the search query to retrieve with. Empty when even the
	// generated-query fallback produced nothing usable.
	Query string
	// Question is the accepted extracted question, nil when the query was
	// generated from keywords instead.
	Question *Question
}

// Extracted reports whether the query came from an accepted question
// rather than the keyword fallback.
func (r QueryResult) Extracted() bool {
	return r.Question != nil
}
