package ingest

import (
	"context"
	"os"
	"sync"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/metrics"
	"github.com/avasanth/chatbot-ai-service/internal/rag/chunker"
	"github.com/avasanth/chatbot-ai-service/internal/rag/store"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessBatch ingests every URL of one request for the tenant. URLs are
// processed by a small worker pool but the report always lists outcomes in
// input order. Failure isolation is the whole point here: one bad document
// is recorded and the rest of the batch keeps going. Writes are additive,
// nothing that succeeded earlier is rolled back.
func ProcessBatch(ctx context.Context, tenantID string, urls []string, embStore store.EmbeddingStore) commonModels.BatchReport {
	results := make([]commonModels.DocumentResult, len(urls))

	type task struct {
		pos int
		url string
	}
	tasks := make(chan task)

	workerCount := config.IngestConcurrency
	if len(urls) < workerCount {
		workerCount = len(urls)
	}

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				results[t.pos] = ingestOne(ctx, tenantID, t.url, embStore)
			}
		}()
	}

	for pos, url := range urls {
		tasks <- task{pos: pos, url: url}
	}
	close(tasks)
	wg.Wait()

	report := commonModels.BatchReport{Documents: results}
	for _, r := range results {
		if r.Succeeded() {
			report.TotalChunks += r.ChunkCount
			metrics.IncrementDocumentsIngested("ok")
		} else {
			metrics.IncrementDocumentsIngested("failed")
		}
	}
	logger.Info("Batch finished",
		"tenant", tenantID,
		"documents", len(urls),
		"failed", report.FailureCount(),
		"total_chunks", report.TotalChunks)
	return report
}

func ingestOne(ctx context.Context, tenantID string, url string, embStore store.EmbeddingStore) commonModels.DocumentResult {
	path, err := fetchDocument(ctx, url)
	if err != nil {
		return failed(url, err)
	}
	defer os.Remove(path)

	text, err := extractText(path)
	if err != nil {
		return failed(url, err)
	}

	chunks := chunker.Split(text, url, config.ChunkSize)

	count, err := embStore.Upsert(ctx, tenantID, chunks)
	if err != nil {
		return failed(url, err)
	}

	return commonModels.DocumentResult{URL: url, ChunkCount: count}
}

func failed(url string, err error) commonModels.DocumentResult {
	logger.Warn("Document failed", "url", url, "error", err)
	return commonModels.DocumentResult{URL: url, Error: err.Error()}
}
