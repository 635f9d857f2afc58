package retrieval

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func defaultFuser() *Fuser {
	return NewFuser(FuseOptions{
		MaxCitations:     4,
		ContextCharLimit: 500,
		SnippetCharLimit: 150,
	})
}

func TestFuser_Fuse_DocumentsOutrankWeb(t *testing.T) {
	pdf := []Result{
		{Content: "pdf low", Score: 0.3, Source: "PDF: a.pdf", Kind: SourcePDF, Filename: "a.pdf", Page: 2},
	}
	web := []Result{
		{Content: "web high", Score: 0.99, Source: "Web: example.com", Kind: SourceWeb, URL: "https://example.com"},
	}

	fused := defaultFuser().Fuse(pdf, web)

	if len(fused.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(fused.Citations))
	}
	if fused.Citations[0].SourceType != SourcePDF {
		t.Errorf("first citation = %s, want pdf despite lower score", fused.Citations[0].SourceType)
	}
	if fused.Citations[1].SourceType != SourceWeb {
		t.Errorf("second citation = %s, want web", fused.Citations[1].SourceType)
	}
}

func TestFuser_Fuse_ScoreOrdersWithinTier(t *testing.T) {
	pdf := []Result{
		{Content: "mid", Score: 0.5, Kind: SourcePDF},
		{Content: "high", Score: 0.9, Kind: SourcePDF},
		{Content: "low", Score: 0.1, Kind: SourcePDF},
	}

	fused := defaultFuser().Fuse(pdf, nil)

	got := []string{fused.Citations[0].Content, fused.Citations[1].Content, fused.Citations[2].Content}
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestFuser_Fuse_TiesKeepInputOrder(t *testing.T) {
	web := []Result{
		{Content: "first", Score: 0.8, Kind: SourceWeb},
		{Content: "second", Score: 0.8, Kind: SourceWeb},
		{Content: "third", Score: 0.8, Kind: SourceWeb},
	}

	fused := defaultFuser().Fuse(nil, web)

	got := []string{fused.Citations[0].Content, fused.Citations[1].Content, fused.Citations[2].Content}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tied order = %v, want input order %v", got, want)
	}
}

func TestFuser_Fuse_CapsCitations(t *testing.T) {
	pdf := []Result{
		{Content: "p1", Score: 0.9, Kind: SourcePDF},
		{Content: "p2", Score: 0.8, Kind: SourcePDF},
		{Content: "p3", Score: 0.7, Kind: SourcePDF},
	}
	web := []Result{
		{Content: "w1", Score: 0.9, Kind: SourceWeb},
		{Content: "w2", Score: 0.8, Kind: SourceWeb},
	}

	fused := defaultFuser().Fuse(pdf, web)

	if len(fused.Citations) != 4 {
		t.Fatalf("citations = %d, want cap of 4", len(fused.Citations))
	}
	// All three documents survive the cap; only the best web hit fits.
	if fused.Citations[3].Content != "w1" {
		t.Errorf("last citation = %q, want %q", fused.Citations[3].Content, "w1")
	}
}

func TestFuser_Fuse_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	pdf := []Result{{Content: long, Score: 0.9, Kind: SourcePDF}}

	fused := defaultFuser().Fuse(pdf, nil)

	c := fused.Citations[0]
	if len(c.Content) != 500 {
		t.Errorf("content length = %d, want 500", len(c.Content))
	}
	if len(c.ContextSnippet) != 153 {
		t.Errorf("snippet length = %d, want 150 plus ellipsis", len(c.ContextSnippet))
	}
	if !strings.HasSuffix(c.ContextSnippet, "...") {
		t.Errorf("snippet %q should end with ellipsis", c.ContextSnippet[140:])
	}
}

func TestFuser_Fuse_TruncationKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", 600)
	pdf := []Result{{Content: long, Score: 0.9, Kind: SourcePDF}}

	f := NewFuser(FuseOptions{
		MaxCitations:     4,
		ContextCharLimit: 500,
		SnippetCharLimit: 149,
	})
	fused := f.Fuse(pdf, nil)

	c := fused.Citations[0]
	if !utf8.ValidString(c.Content) {
		t.Error("truncated content is invalid UTF-8")
	}
	if got := utf8.RuneCountInString(c.Content); got != 500 {
		t.Errorf("content runes = %d, want 500", got)
	}
	if !utf8.ValidString(c.ContextSnippet) {
		t.Error("snippet is invalid UTF-8")
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(c.ContextSnippet, "...")); got != 149 {
		t.Errorf("snippet runes = %d, want 149 plus ellipsis", got)
	}
	if !utf8.ValidString(fused.CombinedContext) {
		t.Error("combined context is invalid UTF-8")
	}
}

func TestFuser_Fuse_ShortContentNotPadded(t *testing.T) {
	pdf := []Result{{Content: "short passage", Score: 0.9, Kind: SourcePDF}}

	fused := defaultFuser().Fuse(pdf, nil)

	if fused.Citations[0].ContextSnippet != "short passage" {
		t.Errorf("snippet = %q, want content unchanged", fused.Citations[0].ContextSnippet)
	}
}

func TestFuser_Fuse_CombinedContextLabels(t *testing.T) {
	pdf := []Result{
		{Content: "doc text", Score: 0.9, Kind: SourcePDF, Filename: "guide.pdf", Page: 7},
	}
	web := []Result{
		{Content: "web text", Score: 0.8, Kind: SourceWeb, URL: "https://example.com"},
	}

	fused := defaultFuser().Fuse(pdf, web)

	want := "[PDF] (Page 7) doc text\n\n[WEB] web text"
	if fused.CombinedContext != want {
		t.Errorf("combined context = %q, want %q", fused.CombinedContext, want)
	}
}

func TestFuser_Fuse_CitationFields(t *testing.T) {
	pdf := []Result{
		{Content: "chunk", Score: 0.91, Source: "PDF: guide.pdf", Kind: SourcePDF, Filename: "guide.pdf", StartPage: 3, EndPage: 5},
	}
	web := []Result{
		{Content: "snippet", Score: 0.72, Source: "Web: example.com", Kind: SourceWeb, URL: "https://example.com/post"},
	}

	fused := defaultFuser().Fuse(pdf, web)

	doc := fused.Citations[0]
	if doc.Filename != "guide.pdf" || doc.PageRange != "Pages 3-5" {
		t.Errorf("document citation = %+v, want filename and page range set", doc)
	}
	if doc.URL != "" {
		t.Errorf("document citation should not carry a URL, got %q", doc.URL)
	}

	webCit := fused.Citations[1]
	if webCit.URL != "https://example.com/post" {
		t.Errorf("web citation URL = %q", webCit.URL)
	}
	if webCit.Filename != "" || webCit.PageRange != "" {
		t.Errorf("web citation should not carry page fields, got %+v", webCit)
	}
}

func TestFuser_Fuse_Deterministic(t *testing.T) {
	pdf := []Result{
		{Content: "p1", Score: 0.5, Kind: SourcePDF},
		{Content: "p2", Score: 0.5, Kind: SourcePDF},
	}
	web := []Result{
		{Content: "w1", Score: 0.9, Kind: SourceWeb},
	}

	f := defaultFuser()
	first := f.Fuse(pdf, web)
	second := f.Fuse(pdf, web)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs should produce identical output")
	}
}

func TestFuser_Fuse_EmptyInputs(t *testing.T) {
	fused := defaultFuser().Fuse(nil, nil)

	if fused.CombinedContext != "" {
		t.Errorf("combined context = %q, want empty", fused.CombinedContext)
	}
	if len(fused.Citations) != 0 {
		t.Errorf("citations = %d, want 0", len(fused.Citations))
	}
}

func TestFormatPageRange(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{"multi page chunk", Result{StartPage: 3, EndPage: 5}, "Pages 3-5"},
		{"equal start and end", Result{StartPage: 4, EndPage: 4}, "Page 4"},
		{"single page field", Result{Page: 9}, "Page 9"},
		{"start page only", Result{StartPage: 2}, "Page 2"},
		{"no page info", Result{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatPageRange(tt.result)
			if result != tt.expected {
				t.Errorf("formatPageRange(%+v) = %q, want %q", tt.result, result, tt.expected)
			}
		})
	}
}
