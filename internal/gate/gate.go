package gate

import (
	"context"
	"fmt"
	"strings"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/llm"
)

const knownPrefix = "KNOWN:"

const knowledgeCheckPrompt = `You are an AI assistant that needs to determine if you have sufficient knowledge to answer a question.

Conversation: %s

Analyze this conversation and determine:
1. Is there a clear question being asked?
2. Do you have sufficient knowledge to provide a comprehensive answer?
3. Or would you need external documents/context to give a complete response?

Respond with ONLY one of these formats:
- "KNOWN: [brief answer preview]" - if you can answer comprehensively
- "NEED_CONTEXT: [what specific information you need]" - if you need external sources

Examples:
- For "What is React?" → "KNOWN: React is a JavaScript library..."
- For "What's my GPA?" → "NEED_CONTEXT: Personal academic information"
- For "Company policy on remote work?" → "NEED_CONTEXT: Specific company policies"`

// Decision is the outcome of a knowledge check.
type Decision struct {
	// HasKnowledge is true when the model can answer from its own training.
	HasKnowledge bool
	// Preview is the raw tail of the model reply: an answer preview when
	// HasKnowledge, otherwise a note on what context is missing.
	Preview string
}

// Gate decides whether a transcript can be answered directly or needs
// retrieved context.
type Gate struct {
	client llm.CompletionClient
}

// New creates a new knowledge gate.
func New(client llm.CompletionClient) *Gate {
	return &Gate{client: client}
}

// Classify asks the model whether it can answer from its own knowledge.
// The decision is determined solely by whether the reply starts with the
// literal "KNOWN:" prefix. Any other reply, an empty reply, or a call
// failure classifies as needing context; the gate never fails toward an
// unverified direct answer and never returns an error.
func (g *Gate) Classify(ctx context.Context, transcript string) Decision {
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := g.client.Complete(ctx, fmt.Sprintf(knowledgeCheckPrompt, transcript), llm.CompleteOptions{
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		logger.WarnContext(ctx, "knowledge check failed, defaulting to retrieval", "error", err)
		return Decision{HasKnowledge: false, Preview: "Unable to determine"}
	}

	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, knownPrefix) {
		return Decision{
			HasKnowledge: true,
			Preview:      strings.TrimSpace(strings.TrimPrefix(reply, knownPrefix)),
		}
	}

	preview := reply
	if after, ok := strings.CutPrefix(reply, "NEED_CONTEXT:"); ok {
		preview = strings.TrimSpace(after)
	}
	logger.InfoContext(ctx, "knowledge gate requests context", "preview", preview)
	return Decision{HasKnowledge: false, Preview: preview}
}
