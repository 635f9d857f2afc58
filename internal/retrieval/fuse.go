package retrieval

import (
	"fmt"
	"sort"
	"strings"
)

const (
	pdfPriority = 1
	webPriority = 2
)

// FuseOptions holds the truncation and cap parameters of fusion.
type FuseOptions struct {
	// MaxCitations caps the fused citation list.
	MaxCitations int
	// ContextCharLimit truncates each result's content in the combined context.
	ContextCharLimit int
	// SnippetCharLimit truncates each citation's preview snippet.
	SnippetCharLimit int
}

// Fuser merges document and web results into one ranked, bounded context.
type Fuser struct {
	opts FuseOptions
}

// NewFuser creates a new Fuser.
func NewFuser(opts FuseOptions) *Fuser {
	return &Fuser{opts: opts}
}

// Fuse merges the two result sets under a fixed priority ordering: document
// hits always outrank web hits regardless of score; within a priority tier,
// higher score wins, and ties keep input order. The merged list is capped and
// each entry truncated, producing the flattened context string and the
// parallel citation list. Identical inputs always yield identical output.
func (f *Fuser) Fuse(pdfResults, webResults []Result) FusedContext {
	type ranked struct {
		Result
		priority int
	}

	all := make([]ranked, 0, len(pdfResults)+len(webResults))
	for _, r := range pdfResults {
		all = append(all, ranked{Result: r, priority: pdfPriority})
	}
	for _, r := range webResults {
		all = append(all, ranked{Result: r, priority: webPriority})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority < all[j].priority
		}
		return all[i].Score > all[j].Score
	})

	if len(all) > f.opts.MaxCitations {
		all = all[:f.opts.MaxCitations]
	}

	contextParts := make([]string, 0, len(all))
	citations := make([]Citation, 0, len(all))

	for _, r := range all {
		content := truncate(r.Content, f.opts.ContextCharLimit)

		var entry string
		if r.Kind == SourcePDF {
			pageInfo := formatPageRange(r.Result)
			if pageInfo != "" {
				entry = fmt.Sprintf("[PDF] (%s) %s", pageInfo, content)
			} else {
				entry = fmt.Sprintf("[PDF] %s", content)
			}
		} else {
			entry = fmt.Sprintf("[WEB] %s", content)
		}
		contextParts = append(contextParts, entry)

		citation := Citation{
			Source:         r.Source,
			Content:        content,
			Score:          r.Score,
			SourceType:     r.Kind,
			ContextSnippet: snippet(content, f.opts.SnippetCharLimit),
		}
		if r.Kind == SourcePDF {
			citation.Page = r.Page
			citation.StartPage = r.StartPage
			citation.EndPage = r.EndPage
			citation.Filename = r.Filename
			citation.PageRange = formatPageRange(r.Result)
		} else {
			citation.URL = r.URL
		}
		citations = append(citations, citation)
	}

	return FusedContext{
		CombinedContext: strings.Join(contextParts, "\n\n"),
		Citations:       citations,
	}
}

// formatPageRange renders a page locator label for a document hit:
// "Pages A-B" for a multi-page chunk, "Page N" for a single page.
func formatPageRange(r Result) string {
	if r.StartPage > 0 && r.EndPage > 0 && r.StartPage != r.EndPage {
		return fmt.Sprintf("Pages %d-%d", r.StartPage, r.EndPage)
	}
	if r.Page > 0 {
		return fmt.Sprintf("Page %d", r.Page)
	}
	if r.StartPage > 0 {
		return fmt.Sprintf("Page %d", r.StartPage)
	}
	return ""
}

// truncate cuts s to at most limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// snippet cuts s to at most limit characters, appending an ellipsis when
// anything was cut.
func snippet(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
