package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"meeting-copilot/internal/vectorstore"
	"meeting-copilot/internal/vectorstore/mocks"
)

// stubEmbedder is a minimal Embedder for retriever tests.
type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestDocumentRetriever_Retrieve(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockVectorStore(ctrl)

	queryVector := []float32{0.1, 0.2, 0.3}
	mockStore.EXPECT().
		Search(gomock.Any(), "documents", queryVector, 3).
		Return([]vectorstore.SearchResult{
			{
				PointID: "p1",
				Score:   0.92,
				Meta: map[string]any{
					"content":    "Raft elects a leader by majority vote.",
					"filename":   "raft.pdf",
					"page":       int64(4),
					"start_page": float64(4),
					"end_page":   float64(6),
				},
			},
			{
				PointID: "p2",
				Score:   0.71,
				Meta:    map[string]any{"content": "Terms are monotonically increasing."},
			},
		}, nil)

	retriever := NewDocumentRetriever(&stubEmbedder{vectors: [][]float32{queryVector}}, mockStore, "documents")

	results, err := retriever.Retrieve(context.Background(), "how does raft elect a leader", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	first := results[0]
	if first.Kind != SourcePDF {
		t.Errorf("kind = %s, want pdf", first.Kind)
	}
	if first.Source != "PDF: raft.pdf" {
		t.Errorf("source = %q, want %q", first.Source, "PDF: raft.pdf")
	}
	if first.Page != 4 || first.StartPage != 4 || first.EndPage != 6 {
		t.Errorf("page fields = %d/%d/%d, want 4/4/6", first.Page, first.StartPage, first.EndPage)
	}

	second := results[1]
	if second.Filename != "Unknown" {
		t.Errorf("missing filename should default to %q, got %q", "Unknown", second.Filename)
	}
	if second.Page != 0 {
		t.Errorf("missing page should be 0, got %d", second.Page)
	}
}

func TestDocumentRetriever_Retrieve_EmbedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockVectorStore(ctrl)

	retriever := NewDocumentRetriever(&stubEmbedder{err: errors.New("embedding service down")}, mockStore, "documents")

	_, err := retriever.Retrieve(context.Background(), "query", 3)
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestDocumentRetriever_Retrieve_SearchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockVectorStore(ctrl)

	mockStore.EXPECT().
		Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("collection not found"))

	retriever := NewDocumentRetriever(&stubEmbedder{vectors: [][]float32{{0.1}}}, mockStore, "documents")

	_, err := retriever.Retrieve(context.Background(), "query", 3)
	if err == nil {
		t.Fatal("expected error when vector search fails")
	}
}
