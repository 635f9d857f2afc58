package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"meeting-copilot/internal/copilot"
	"meeting-copilot/internal/handlers"
	"meeting-copilot/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service        *copilot.Service
	VectorStore    vectorstore.VectorStore
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(CORS)

	answerHandler := handlers.NewAnswerHandler(deps.Service)
	diagnoseHandler := handlers.NewDiagnoseHandler(deps.Service)
	summarizeHandler := handlers.NewSummarizeHandler(deps.Service)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/answer", answerHandler)
		r.Method(http.MethodPost, "/diagnose", diagnoseHandler)
		r.Method(http.MethodPost, "/summarize", summarizeHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
