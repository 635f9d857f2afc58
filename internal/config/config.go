package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Pipeline holds the tunable constants of the answer pipeline.
// The defaults were hand-tuned in production; treat them as knobs, not truths.
type Pipeline struct {
	// RemoteConfidenceThreshold is the minimum confidence to accept a
	// question extracted by the LLM extractor.
	RemoteConfidenceThreshold float64
	// LocalConfidenceThreshold is the minimum confidence to accept a
	// question matched by the local regex extractor.
	LocalConfidenceThreshold float64
	// MinQueryLength is the minimum length of a search query; anything
	// shorter skips retrieval entirely.
	MinQueryLength int
	// SearchTopK is how many results each retriever requests from its provider.
	SearchTopK int
	// MaxCitations caps the fused citation list.
	MaxCitations int
	// ContextCharLimit truncates each result's content in the combined context.
	ContextCharLimit int
	// SnippetCharLimit truncates each citation's preview snippet.
	SnippetCharLimit int
	// WebCacheTTL is how long web search responses are cached per query.
	WebCacheTTL time.Duration
}

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	TavilyBaseURL      string
	TavilyAPIKey       string
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
	Pipeline           Pipeline
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a project-root .env (next to go.mod), limited depth.
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.groq.com/openai"),
		LLMModelName:       getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
		TavilyBaseURL:      getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		TavilyAPIKey:       getEnv("TAVILY_API_KEY", ""),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// QDRANT_VECTOR_SIZE must match the output size of the embeddings model.
	// If the vector size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	pipeline, err := loadPipeline()
	if err != nil {
		return nil, err
	}
	cfg.Pipeline = pipeline

	return cfg, nil
}

// DefaultPipeline returns the pipeline constants with their production defaults.
func DefaultPipeline() Pipeline {
	return Pipeline{
		RemoteConfidenceThreshold: 0.4,
		LocalConfidenceThreshold:  0.5,
		MinQueryLength:            10,
		SearchTopK:                3,
		MaxCitations:              4,
		ContextCharLimit:          500,
		SnippetCharLimit:          150,
		WebCacheTTL:               2 * time.Minute,
	}
}

func loadPipeline() (Pipeline, error) {
	p := DefaultPipeline()

	var err error
	if p.RemoteConfidenceThreshold, err = getEnvFloat("REMOTE_CONFIDENCE_THRESHOLD", p.RemoteConfidenceThreshold); err != nil {
		return Pipeline{}, err
	}
	if p.LocalConfidenceThreshold, err = getEnvFloat("LOCAL_CONFIDENCE_THRESHOLD", p.LocalConfidenceThreshold); err != nil {
		return Pipeline{}, err
	}
	if p.MinQueryLength, err = getEnvInt("MIN_QUERY_LENGTH", p.MinQueryLength); err != nil {
		return Pipeline{}, err
	}
	if p.SearchTopK, err = getEnvInt("SEARCH_TOP_K", p.SearchTopK); err != nil {
		return Pipeline{}, err
	}
	if p.MaxCitations, err = getEnvInt("MAX_CITATIONS", p.MaxCitations); err != nil {
		return Pipeline{}, err
	}
	if p.ContextCharLimit, err = getEnvInt("CONTEXT_CHAR_LIMIT", p.ContextCharLimit); err != nil {
		return Pipeline{}, err
	}
	if p.SnippetCharLimit, err = getEnvInt("SNIPPET_CHAR_LIMIT", p.SnippetCharLimit); err != nil {
		return Pipeline{}, err
	}

	ttlStr := getEnv("WEB_CACHE_TTL", "")
	if ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Pipeline{}, fmt.Errorf("WEB_CACHE_TTL must be a valid duration: %w", err)
		}
		p.WebCacheTTL = ttl
	}

	if p.SearchTopK <= 0 {
		return Pipeline{}, fmt.Errorf("SEARCH_TOP_K must be greater than 0")
	}
	if p.MaxCitations <= 0 {
		return Pipeline{}, fmt.Errorf("MAX_CITATIONS must be greater than 0")
	}

	return p, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (expected debug, info, warn, or error)", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}
