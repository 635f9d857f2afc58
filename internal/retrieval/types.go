package retrieval

// SourceKind discriminates which retriever produced a result.
type SourceKind string

const (
	// SourcePDF marks a passage retrieved from the document index.
	SourcePDF SourceKind = "pdf"
	// SourceWeb marks a snippet retrieved from web search.
	SourceWeb SourceKind = "web"
)

// Result is a single retrieval hit from either source. Page fields are only
// set for document hits; URL and Title only for web hits.
type Result struct {
	Content   string
	Score     float64
	Source    string
	Kind      SourceKind
	Filename  string
	Page      int
	StartPage int
	EndPage   int
	Title     string
	URL       string
}

// Set holds the per-source result lists of one retrieval pass.
type Set struct {
	PDFResults []Result
	WebResults []Result
}

// Citation is a ranked, truncated retrieval result attached to an answer
// for attribution. The JSON field names are the sidecar wire contract.
type Citation struct {
	Source         string     `json:"source"`
	Content        string     `json:"content"`
	URL            string     `json:"url,omitempty"`
	Score          float64    `json:"score"`
	SourceType     SourceKind `json:"sourceType"`
	Page           int        `json:"page,omitempty"`
	StartPage      int        `json:"startPage,omitempty"`
	EndPage        int        `json:"endPage,omitempty"`
	Filename       string     `json:"filename,omitempty"`
	PageRange      string     `json:"pageRange,omitempty"`
	ContextSnippet string     `json:"contextSnippet,omitempty"`
}

// FusedContext is the merged, ranked, truncated retrieval output: a flat
// context string for the prompt and the parallel citation list. Citations
// are ordered by fusion rank; the 1-based rank is the array position.
type FusedContext struct {
	CombinedContext string     `json:"combinedContext"`
	Citations       []Citation `json:"citations"`
}
