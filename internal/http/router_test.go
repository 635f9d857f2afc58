package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	vsmocks "meeting-copilot/internal/vectorstore/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *vsmocks.MockVectorStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockStore := vsmocks.NewMockVectorStore(ctrl)

	router := NewRouter(&Deps{
		VectorStore:    mockStore,
		CollectionName: "documents",
	})
	return router, mockStore
}

func TestRouter_HealthRoute(t *testing.T) {
	router, mockStore := newTestRouter(t)

	mockStore.EXPECT().
		CollectionExists(gomock.Any(), "documents").
		Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("request ID middleware should set the response header")
	}
}

func TestRouter_AnswerRouteRejectsInvalidBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRouter_MethodRouting(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/answer", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
