package handlers

import (
	"encoding/json"
	"net/http"

	"meeting-copilot/internal/contextutil"
	"meeting-copilot/internal/copilot"
)

// DiagnoseHandler exposes the intermediate pipeline state (extracted
// question, retrieval results, fused context) without generating an answer.
// Useful for introspection and for clients that cannot parse the stream
// wire format.
type DiagnoseHandler struct {
	service *copilot.Service
}

// NewDiagnoseHandler creates a new DiagnoseHandler.
func NewDiagnoseHandler(service *copilot.Service) *DiagnoseHandler {
	return &DiagnoseHandler{service: service}
}

// DiagnoseRequest represents the HTTP request payload for diagnostics.
type DiagnoseRequest struct {
	Transcript string `json:"transcript"`
	Background string `json:"background,omitempty"`
}

// ServeHTTP handles HTTP requests for pipeline diagnostics.
func (h *DiagnoseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Diagnose(ctx, req.Transcript, req.Background)
	if err != nil {
		handleServiceError(w, r, err, "Failed to diagnose transcript")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
