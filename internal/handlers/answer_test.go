package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"meeting-copilot/internal/copilot"
	"meeting-copilot/internal/extract"
	"meeting-copilot/internal/gate"
	"meeting-copilot/internal/llm"
	llmmocks "meeting-copilot/internal/llm/mocks"
	"meeting-copilot/internal/retrieval"
	"meeting-copilot/internal/vectorstore"
	vsmocks "meeting-copilot/internal/vectorstore/mocks"
	"meeting-copilot/internal/websearch"
	wsmocks "meeting-copilot/internal/websearch/mocks"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{0.1, 0.2, 0.3}}, nil
}

func newTestService(t *testing.T) (*copilot.Service, *llmmocks.MockCompletionClient, *vsmocks.MockVectorStore, *wsmocks.MockSearcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockClient := llmmocks.NewMockCompletionClient(ctrl)
	mockStore := vsmocks.NewMockVectorStore(ctrl)
	mockSearcher := wsmocks.NewMockSearcher(ctrl)

	orchestrator := retrieval.NewOrchestrator(
		retrieval.NewDocumentRetriever(stubEmbedder{}, mockStore, "documents"),
		retrieval.NewWebRetriever(mockSearcher),
		3,
	)
	fuser := retrieval.NewFuser(retrieval.FuseOptions{
		MaxCitations:     4,
		ContextCharLimit: 500,
		SnippetCharLimit: 150,
	})
	service := copilot.NewService(
		gate.New(mockClient),
		extract.NewChain(mockClient, 0.4, 0.5),
		orchestrator,
		fuser,
		mockClient,
		10,
	)
	return service, mockClient, mockStore, mockSearcher
}

func TestAnswerHandler_StreamsAnswerWithSources(t *testing.T) {
	service, mockClient, mockStore, mockSearcher := newTestService(t)

	gomock.InOrder(
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("NEED_CONTEXT: deployment details", nil),
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(`{"question": "What is our deployment process?", "context": "", "confidence": 0.9}`, nil),
		mockClient.EXPECT().
			StreamComplete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ llm.CompleteOptions, callback func(string) error) error {
				return callback("Deployments run through ArgoCD.")
			}),
	)
	mockStore.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorstore.SearchResult{
			{Score: 0.9, Meta: map[string]any{"content": "ArgoCD pipeline docs.", "filename": "runbook.pdf", "page": int64(2)}},
		}, nil)
	mockSearcher.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]websearch.Result{}, nil)

	handler := NewAnswerHandler(service)

	body := strings.NewReader(`{"transcript": "They asked me about our deployment process"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/answer", body)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}

	text, sidecar, found := strings.Cut(w.Body.String(), copilot.SourcesDelimiter)
	if !found {
		t.Fatalf("body should contain the sources delimiter, got %q", w.Body.String())
	}
	if text != "Deployments run through ArgoCD." {
		t.Errorf("answer text = %q", text)
	}

	var parsed struct {
		Type      string `json:"type"`
		Citations []struct {
			Source     string `json:"source"`
			SourceType string `json:"sourceType"`
			Filename   string `json:"filename"`
		} `json:"citations"`
		ExtractedQuestion string `json:"extractedQuestion"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(sidecar)), &parsed); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	if parsed.Type != "citations" {
		t.Errorf("sidecar type = %q", parsed.Type)
	}
	if len(parsed.Citations) != 1 || parsed.Citations[0].Filename != "runbook.pdf" {
		t.Errorf("citations = %+v", parsed.Citations)
	}
	if parsed.ExtractedQuestion != "What is our deployment process?" {
		t.Errorf("extracted question = %q", parsed.ExtractedQuestion)
	}
}

func TestAnswerHandler_DirectAnswerHasNoSidecar(t *testing.T) {
	service, mockClient, _, _ := newTestService(t)

	gomock.InOrder(
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("KNOWN: React is a JavaScript library.", nil),
		mockClient.EXPECT().
			StreamComplete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ llm.CompleteOptions, callback func(string) error) error {
				return callback("React is a JavaScript library.")
			}),
	)

	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader(`{"transcript": "What is React?"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), "---SOURCES---") {
		t.Errorf("direct answer should have no sidecar, got %q", w.Body.String())
	}
}

func TestAnswerHandler_ServiceUnavailable(t *testing.T) {
	service, mockClient, _, _ := newTestService(t)

	gomock.InOrder(
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("KNOWN: short", nil),
		mockClient.EXPECT().
			StreamComplete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused")),
	)

	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader(`{"transcript": "What is React?"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "AI service is currently unavailable. Please try again in a moment." {
		t.Errorf("error message = %q", resp.Error)
	}
}

// failAfterWriter delivers the first allowed writes, then fails, standing in
// for a client that disconnects mid-stream.
type failAfterWriter struct {
	http.ResponseWriter
	allowed int
	writes  int
}

func (f *failAfterWriter) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > f.allowed {
		return 0, errors.New("client disconnected")
	}
	return f.ResponseWriter.Write(p)
}

func TestAnswerHandler_NoStructuredErrorAfterStreamStarts(t *testing.T) {
	service, mockClient, mockStore, mockSearcher := newTestService(t)

	gomock.InOrder(
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("NEED_CONTEXT: deployment details", nil),
		mockClient.EXPECT().
			Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(`{"question": "What is our deployment process?", "context": "", "confidence": 0.9}`, nil),
		mockClient.EXPECT().
			StreamComplete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ llm.CompleteOptions, callback func(string) error) error {
				return callback("Deployments run through ArgoCD.")
			}),
	)
	mockStore.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorstore.SearchResult{
			{Score: 0.9, Meta: map[string]any{"content": "ArgoCD pipeline docs.", "filename": "runbook.pdf"}},
		}, nil)
	mockSearcher.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]websearch.Result{}, nil)

	handler := NewAnswerHandler(service)

	body := strings.NewReader(`{"transcript": "They asked me about our deployment process"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/answer", body)
	rec := httptest.NewRecorder()
	// The text frame goes through; the citation trailer write fails.
	w := &failAfterWriter{ResponseWriter: rec, allowed: 1}

	handler.ServeHTTP(w, req)

	got := rec.Body.String()
	if got != "Deployments run through ArgoCD." {
		t.Errorf("body = %q, want only the streamed text", got)
	}
	if strings.Contains(got, `"error"`) {
		t.Error("a structured error must not be appended to a started stream")
	}
}

func TestAnswerHandler_EmptyTranscript(t *testing.T) {
	service, _, _, _ := newTestService(t)
	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader(`{"transcript": ""}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnswerHandler_InvalidMode(t *testing.T) {
	service, _, _, _ := newTestService(t)
	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader(`{"transcript": "hello", "mode": "turbo"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnswerHandler_InvalidBody(t *testing.T) {
	service, _, _, _ := newTestService(t)
	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnswerHandler_MethodNotAllowed(t *testing.T) {
	service, _, _, _ := newTestService(t)
	handler := NewAnswerHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/answer", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
