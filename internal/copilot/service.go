package copilot

import (
	"context"
	"fmt"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/extract"
	"meeting-copilot/internal/gate"
	"meeting-copilot/internal/llm"
	"meeting-copilot/internal/retrieval"
)

// Mode selects how the pipeline decides between its two answer paths.
type Mode string

const (
	// ModeDirectCheck runs the knowledge gate and only retrieves when the
	// model says it needs context. This is the default.
	ModeDirectCheck Mode = "direct-check"
	// ModeForceRAG skips the gate and always retrieves.
	ModeForceRAG Mode = "force-rag"
)

const (
	answerFallback  = "Sorry, I could not generate a response at this time."
	summaryFallback = "No response received from AI service. Please try again."
)

// AnswerRequest is one question-answering request.
type AnswerRequest struct {
	Transcript string
	Background string
	Mode       Mode
}

// DiagnoseResult exposes the intermediate pipeline state for a transcript
// without generating an answer.
type DiagnoseResult struct {
	ExtractedQuestion *extract.Question      `json:"extractedQuestion"`
	Query             string                 `json:"query"`
	SearchPerformed   bool                   `json:"searchPerformed"`
	PDFResultCount    int                    `json:"pdfResultCount"`
	WebResultCount    int                    `json:"webResultCount"`
	Context           retrieval.FusedContext `json:"context"`
}

// Service drives the full answer pipeline: knowledge gate, question
// extraction, concurrent retrieval, fusion, and streamed composition.
// All collaborators are injected once at construction and shared across
// requests; per-request state lives on the stack.
type Service struct {
	gate           *gate.Gate
	chain          *extract.Chain
	orchestrator   *retrieval.Orchestrator
	fuser          *retrieval.Fuser
	llmClient      llm.CompletionClient
	minQueryLength int
}

// NewService creates a new Service.
func NewService(
	g *gate.Gate,
	chain *extract.Chain,
	orchestrator *retrieval.Orchestrator,
	fuser *retrieval.Fuser,
	llmClient llm.CompletionClient,
	minQueryLength int,
) *Service {
	return &Service{
		gate:           g,
		chain:          chain,
		orchestrator:   orchestrator,
		fuser:          fuser,
		llmClient:      llmClient,
		minQueryLength: minQueryLength,
	}
}

// Answer processes one request and writes the answer as a sequence of frames:
// text chunks as the model produces them, then at most one citation frame.
//
// A language-model failure before the first chunk returns
// ErrServiceUnavailable so the caller can still respond with a structured
// error. A failure after chunks have been sent degrades to an inline error
// marker and a clean close; it is never surfaced as an error because the
// caller has already received partial content.
func (s *Service) Answer(ctx context.Context, req AnswerRequest, out FrameWriter) error {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Transcript == "" {
		return &ValidationError{Field: "transcript", Message: "cannot be empty"}
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeDirectCheck
	}

	if mode == ModeDirectCheck {
		decision := s.gate.Classify(ctx, req.Transcript)
		if decision.HasKnowledge {
			logger.InfoContext(ctx, "answering from model knowledge", "preview_length", len(decision.Preview))
			return s.streamAnswer(ctx, buildDirectPrompt(req.Background, req.Transcript), nil, out)
		}
		logger.InfoContext(ctx, "model needs context, retrieving", "missing", decision.Preview)
	}

	result, fused, searchPerformed := s.retrieve(ctx, req.Transcript, req.Background)

	if !searchPerformed || len(fused.Citations) == 0 {
		logger.InfoContext(ctx, "no usable retrieval context, answering directly",
			"search_performed", searchPerformed,
		)
		return s.streamAnswer(ctx, buildDirectPrompt(req.Background, req.Transcript), nil, out)
	}

	question := result.Query
	extractedQuestion := ""
	if result.Extracted() {
		question = result.Question.Question
		extractedQuestion = result.Question.Question
	}

	prompt := buildRAGPrompt(req.Background, req.Transcript, question, fused.CombinedContext)
	citationFrame := &Frame{
		Type:              FrameCitations,
		Citations:         fused.Citations,
		ExtractedQuestion: extractedQuestion,
	}
	return s.streamAnswer(ctx, prompt, citationFrame, out)
}

// Diagnose runs extraction, retrieval, and fusion for a transcript and
// returns the intermediate state without composing an answer.
func (s *Service) Diagnose(ctx context.Context, transcript, background string) (DiagnoseResult, error) {
	if transcript == "" {
		return DiagnoseResult{}, &ValidationError{Field: "transcript", Message: "cannot be empty"}
	}

	result, fused, searchPerformed := s.retrieve(ctx, transcript, background)

	diag := DiagnoseResult{
		ExtractedQuestion: result.Question,
		Query:             result.Query,
		SearchPerformed:   searchPerformed,
		Context:           fused,
	}
	for _, c := range fused.Citations {
		if c.SourceType == retrieval.SourcePDF {
			diag.PDFResultCount++
		} else {
			diag.WebResultCount++
		}
	}
	return diag, nil
}

// Summarize streams a summary of the given text.
func (s *Service) Summarize(ctx context.Context, text string, out FrameWriter) error {
	if text == "" {
		return &ValidationError{Field: "text", Message: "cannot be empty"}
	}
	return s.stream(ctx, buildSummarizerPrompt(text), nil, summaryFallback, out)
}

// retrieve runs the extraction chain and, when the derived query is long
// enough to search meaningfully, the concurrent retrieval pass and fusion.
// A too-short query is a deliberate bail-out, not an error.
func (s *Service) retrieve(ctx context.Context, transcript, background string) (extract.QueryResult, retrieval.FusedContext, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	result := s.chain.ExtractQuery(ctx, transcript)
	if len(result.Query) < s.minQueryLength {
		logger.InfoContext(ctx, "query too short, skipping retrieval", "query", result.Query)
		return result, retrieval.FusedContext{Citations: []retrieval.Citation{}}, false
	}

	set := s.orchestrator.Retrieve(ctx, result.Query, background)
	fused := s.fuser.Fuse(set.PDFResults, set.WebResults)

	logger.InfoContext(ctx, "retrieval context fused",
		"query", result.Query,
		"citations", len(fused.Citations),
		"context_length", len(fused.CombinedContext),
	)
	return result, fused, true
}

// streamAnswer streams a completion with the standard answer fallback text.
func (s *Service) streamAnswer(ctx context.Context, prompt string, trailer *Frame, out FrameWriter) error {
	return s.stream(ctx, prompt, trailer, answerFallback, out)
}

// stream opens a streaming completion for the prompt and forwards every
// delta to out verbatim. If the model produced no content at all, fallback
// is emitted so the caller never receives an empty body. trailer, when
// non-nil, is written after the text completes successfully.
func (s *Service) stream(ctx context.Context, prompt string, trailer *Frame, fallback string, out FrameWriter) error {
	logger := contextutil.LoggerFromContext(ctx)

	chunksSent := 0
	err := s.llmClient.StreamComplete(ctx, prompt, llm.CompleteOptions{
		Temperature: 0.7,
		MaxTokens:   4000,
	}, func(chunk string) error {
		if chunk == "" {
			return nil
		}
		if err := out.WriteFrame(Frame{Type: FrameText, Text: chunk}); err != nil {
			return err
		}
		chunksSent++
		return nil
	})

	if err != nil {
		if ctx.Err() != nil {
			// Caller went away; stop forwarding and release the stream quietly.
			logger.InfoContext(ctx, "answer stream canceled", "chunks_sent", chunksSent)
			return nil
		}
		if chunksSent == 0 {
			logger.ErrorContext(ctx, "completion failed before any output", "error", err)
			return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		// Partial content is already on the wire: append a visible marker
		// and close cleanly instead of aborting the stream.
		logger.ErrorContext(ctx, "completion failed mid-stream", "chunks_sent", chunksSent, "error", err)
		_ = out.WriteFrame(Frame{Type: FrameText, Text: fmt.Sprintf("Error: %v", err)})
		return nil
	}

	if chunksSent == 0 {
		logger.WarnContext(ctx, "completion produced no content, emitting fallback")
		if err := out.WriteFrame(Frame{Type: FrameText, Text: fallback}); err != nil {
			return err
		}
	}

	if trailer != nil {
		if err := out.WriteFrame(*trailer); err != nil {
			return err
		}
	}
	return nil
}
