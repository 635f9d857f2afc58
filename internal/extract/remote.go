package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/llm"
)

const extractionPrompt = `
Analyze the following conversation transcript and extract the most recent or important question that needs to be answered.

Rules:
1. Focus on questions that require a response
2. Ignore casual conversation or confirmations
3. If multiple questions exist, prioritize the most recent unanswered one
4. Return only ONE primary question
5. Provide confidence score (0-1) based on clarity

Transcript:
"""
%s
"""

Return a JSON response with:
{
  "question": "The extracted question",
  "context": "Brief context around the question",
  "confidence": 0.95
}

If no clear question is found, return:
{
  "question": "",
  "context": "",
  "confidence": 0
}
`

// RemoteExtractor asks the language model to identify the single most
// relevant unanswered question in a transcript.
type RemoteExtractor struct {
	client llm.CompletionClient
}

// NewRemoteExtractor creates a new RemoteExtractor.
func NewRemoteExtractor(client llm.CompletionClient) *RemoteExtractor {
	return &RemoteExtractor{client: client}
}

// Extract prompts the model for a JSON-shaped question and parses the reply
// defensively. A malformed reply is an extraction failure, not a fatal error.
func (e *RemoteExtractor) Extract(ctx context.Context, transcript string) (*Question, error) {
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := e.client.Complete(ctx, fmt.Sprintf(extractionPrompt, transcript), llm.CompleteOptions{
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	question, err := parseExtractionReply(reply)
	if err != nil {
		logger.WarnContext(ctx, "malformed extraction reply", "error", err)
		return nil, fmt.Errorf("malformed extraction reply: %w", err)
	}

	if strings.TrimSpace(question.Question) == "" {
		return nil, nil
	}
	return question, nil
}

// parseExtractionReply strips markdown code fences the model tends to wrap
// JSON in, then unmarshals the candidate question.
func parseExtractionReply(reply string) (*Question, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var question Question
	if err := json.Unmarshal([]byte(cleaned), &question); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}
	return &question, nil
}
