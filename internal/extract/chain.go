package extract

import (
	"context"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/llm"
)

// Chain evaluates an ordered list of extraction strategies and stops at the
// first accepted candidate. When every strategy declines it falls back to a
// generated bag-of-keywords query.
type Chain struct {
	strategies []Strategy
}

// NewChain builds the standard two-level chain: the remote LLM extractor
// followed by the local regex extractor.
func NewChain(client llm.CompletionClient, remoteThreshold, localThreshold float64) *Chain {
	remote := NewRemoteExtractor(client)

	return &Chain{
		strategies: []Strategy{
			{
				Name:          "remote",
				MinConfidence: remoteThreshold,
				Extract:       remote.Extract,
			},
			{
				Name:          "local",
				MinConfidence: localThreshold,
				Extract: func(_ context.Context, transcript string) (*Question, error) {
					return ExtractLocally(transcript), nil
				},
			},
		},
	}
}

// NewChainFromStrategies builds a chain from an explicit strategy list.
// Used by tests to exercise individual levels.
func NewChainFromStrategies(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// ExtractQuery runs the fallback chain over the transcript. Each strategy is
// attempted only when the previous one failed or produced a candidate below
// its acceptance threshold. The result always carries a query string, though
// it may be empty for degenerate transcripts.
func (c *Chain) ExtractQuery(ctx context.Context, transcript string) QueryResult {
	logger := contextutil.LoggerFromContext(ctx)

	for _, strategy := range c.strategies {
		candidate, err := strategy.Extract(ctx, transcript)
		if err != nil {
			logger.WarnContext(ctx, "extraction strategy failed", "strategy", strategy.Name, "error", err)
			continue
		}
		if candidate == nil {
			logger.DebugContext(ctx, "extraction strategy found no candidate", "strategy", strategy.Name)
			continue
		}
		if candidate.Confidence < strategy.MinConfidence {
			logger.DebugContext(ctx, "extraction candidate below threshold",
				"strategy", strategy.Name,
				"confidence", candidate.Confidence,
				"threshold", strategy.MinConfidence,
			)
			continue
		}

		logger.InfoContext(ctx, "question extracted",
			"strategy", strategy.Name,
			"question", candidate.Question,
			"confidence", candidate.Confidence,
		)
		return QueryResult{
			Query:    candidate.Question,
			Question: candidate,
		}
	}

	query := GenerateSearchQuery(transcript)
	logger.InfoContext(ctx, "no question extracted, generated keyword query", "query", query)
	return QueryResult{Query: query}
}
