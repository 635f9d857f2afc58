package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_client.go -package=mocks meeting-copilot/internal/llm CompletionClient

import "context"

// CompleteOptions holds sampling parameters for a completion request.
type CompleteOptions struct {
	// Temperature controls the randomness of the output.
	// If 0, the provider default is used.
	Temperature float32

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int
}

// CompletionClient is the language-model capability consumed by the pipeline.
// It is implemented by *Client and mocked in tests.
type CompletionClient interface {
	// Complete sends a prompt and returns the full reply.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
	// StreamComplete sends a prompt and forwards each reply delta to the callback
	// as it arrives. A callback error stops the stream and is returned.
	StreamComplete(ctx context.Context, prompt string, opts CompleteOptions, callback func(chunk string) error) error
}

// Embedder is the embedding capability consumed by the document retriever.
// It is implemented by *EmbeddingsClient.
type Embedder interface {
	// EmbedTexts generates one vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
