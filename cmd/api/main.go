package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"meeting-copilot/internal/config"
	"meeting-copilot/internal/copilot"
	"meeting-copilot/internal/extract"
	"meeting-copilot/internal/gate"
	"meeting-copilot/internal/http"
	"meeting-copilot/internal/llm"
	"meeting-copilot/internal/retrieval"
	"meeting-copilot/internal/vectorstore"
	"meeting-copilot/internal/websearch"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	// Initialize Qdrant vector store and validate the document collection.
	// The collection is written by the uploader service; this process only reads it.
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// External capability clients, constructed once and injected by reference
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	var searcher websearch.Searcher = websearch.NewTavilyClient(cfg.TavilyBaseURL, cfg.TavilyAPIKey)
	if cfg.TavilyAPIKey == "" {
		slog.Warn("TAVILY_API_KEY not set, web search disabled")
	}
	searcher = websearch.NewCachingSearcher(searcher, cfg.Pipeline.WebCacheTTL)

	// Assemble the answer pipeline
	pipeline := cfg.Pipeline
	knowledgeGate := gate.New(llmClient)
	chain := extract.NewChain(llmClient, pipeline.RemoteConfidenceThreshold, pipeline.LocalConfidenceThreshold)
	orchestrator := retrieval.NewOrchestrator(
		retrieval.NewDocumentRetriever(embedder, vectorStore, cfg.QdrantCollection),
		retrieval.NewWebRetriever(searcher),
		pipeline.SearchTopK,
	)
	fuser := retrieval.NewFuser(retrieval.FuseOptions{
		MaxCitations:     pipeline.MaxCitations,
		ContextCharLimit: pipeline.ContextCharLimit,
		SnippetCharLimit: pipeline.SnippetCharLimit,
	})
	service := copilot.NewService(knowledgeGate, chain, orchestrator, fuser, llmClient, pipeline.MinQueryLength)
	slog.Info("Answer pipeline initialized",
		"top_k", pipeline.SearchTopK,
		"max_citations", pipeline.MaxCitations,
	)

	// Create router with dependencies
	deps := &http.Deps{
		Service:        service,
		VectorStore:    vectorStore,
		CollectionName: cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
