package retrieval

import (
	"context"
	"sync"

	"meeting-copilot/internal/contextutil"
)

// Orchestrator fans a query out to the document and web retrievers in
// parallel. The two branches fail independently: an error on one degrades
// to an empty result list for that source only, so retrieval as a whole
// always resolves.
type Orchestrator struct {
	documents *DocumentRetriever
	web       *WebRetriever
	topK      int
}

// NewOrchestrator creates a new Orchestrator. topK is how many results each
// retriever requests from its provider.
func NewOrchestrator(documents *DocumentRetriever, web *WebRetriever, topK int) *Orchestrator {
	return &Orchestrator{
		documents: documents,
		web:       web,
		topK:      topK,
	}
}

// Retrieve runs both retrievers concurrently and waits for both to settle.
func (o *Orchestrator) Retrieve(ctx context.Context, query, background string) Set {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		wg         sync.WaitGroup
		pdfResults []Result
		webResults []Result
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		results, err := o.documents.Retrieve(ctx, query, o.topK)
		if err != nil {
			logger.WarnContext(ctx, "document retrieval failed, continuing without documents", "error", err)
			return
		}
		pdfResults = results
	}()

	go func() {
		defer wg.Done()
		results, err := o.web.Retrieve(ctx, query, background, o.topK)
		if err != nil {
			logger.WarnContext(ctx, "web retrieval failed, continuing without web results", "error", err)
			return
		}
		webResults = results
	}()

	wg.Wait()

	if pdfResults == nil {
		pdfResults = []Result{}
	}
	if webResults == nil {
		webResults = []Result{}
	}

	logger.InfoContext(ctx, "retrieval completed",
		"query", query,
		"pdf_results", len(pdfResults),
		"web_results", len(webResults),
	)

	return Set{
		PDFResults: pdfResults,
		WebResults: webResults,
	}
}
