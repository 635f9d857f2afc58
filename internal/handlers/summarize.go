package handlers

import (
	"encoding/json"
	"net/http"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/copilot"
)

// SummarizeHandler handles HTTP requests for streamed text summaries.
type SummarizeHandler struct {
	service *copilot.Service
}

// NewSummarizeHandler creates a new SummarizeHandler.
func NewSummarizeHandler(service *copilot.Service) *SummarizeHandler {
	return &SummarizeHandler{service: service}
}

// SummarizeRequest represents the HTTP request payload for summaries.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// ServeHTTP streams a summary of the submitted text as plain text.
func (h *SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var flush func()
	if flusher, ok := w.(http.Flusher); ok {
		flush = flusher.Flush
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	body := &bodyTracker{w: w}
	out := copilot.NewWireWriter(body, flush)

	if err := h.service.Summarize(ctx, req.Text, out); err != nil {
		if body.wrote {
			logger.ErrorContext(ctx, "summary stream failed after first byte", "error", err)
			return
		}
		handleServiceError(w, r, err, "Failed to summarize text")
		return
	}
}
