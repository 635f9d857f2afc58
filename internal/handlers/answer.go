package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/copilot"
)

// AnswerHandler handles HTTP requests for the streaming answer endpoint.
type AnswerHandler struct {
	service *copilot.Service
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(service *copilot.Service) *AnswerHandler {
	return &AnswerHandler{service: service}
}

// AnswerRequest represents the HTTP request payload for answers.
type AnswerRequest struct {
	Transcript string `json:"transcript"`
	Background string `json:"background,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP streams an answer for the transcript. The body is plain text:
// answer chunks as they are generated, then optionally the ---SOURCES---
// delimiter and a JSON citation sidecar. Failures before the first byte get
// a structured JSON error instead of a stream.
func (h *AnswerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mode := copilot.Mode(req.Mode)
	switch mode {
	case "", copilot.ModeDirectCheck, copilot.ModeForceRAG:
	default:
		logger.WarnContext(ctx, "invalid mode", "mode", req.Mode)
		writeError(w, http.StatusBadRequest, "Invalid mode")
		return
	}

	var flush func()
	if flusher, ok := w.(http.Flusher); ok {
		flush = flusher.Flush
	}

	// The status line is sent with the first frame write; until then a
	// structured error response is still possible.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	body := &bodyTracker{w: w}
	out := copilot.NewWireWriter(body, flush)

	err := h.service.Answer(ctx, copilot.AnswerRequest{
		Transcript: req.Transcript,
		Background: req.Background,
		Mode:       mode,
	}, out)
	if err != nil {
		if body.wrote {
			// Part of the stream already reached the client; appending a
			// JSON error body would corrupt it.
			logger.ErrorContext(ctx, "answer stream failed after first byte", "error", err)
			return
		}
		handleServiceError(w, r, err, "Failed to process answer request")
		return
	}
}

// bodyTracker records whether any body bytes reached the client, so error
// handling can tell a fresh response from a stream already in flight.
type bodyTracker struct {
	w     io.Writer
	wrote bool
}

func (t *bodyTracker) Write(p []byte) (n int, err error) {
	n, err = t.w.Write(p)
	if n > 0 {
		t.wrote = true
	}
	return n, err
}

// handleServiceError maps pipeline errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *copilot.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	if errors.Is(err, copilot.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, copilot.ErrServiceUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "AI service is currently unavailable. Please try again in a moment.")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
