package rag

import (
	"context"
	"strings"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/avasanth/chatbot-ai-service/internal/metrics"
	"github.com/avasanth/chatbot-ai-service/internal/rag/ingest"
	"github.com/avasanth/chatbot-ai-service/internal/rag/llm"
	"github.com/avasanth/chatbot-ai-service/internal/rag/store"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

// Service is everything the worker can ask of the RAG core. The worker never
// sees the embedding store or the LLM directly, swapping them for mocks in
// tests only touches the constructor.
type Service interface {
	IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job
	AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job
	DeleteTenant(ctx context.Context, tenantID string) error
}

type service struct {
	store       store.EmbeddingStore
	llmProvider llm.Provider
	logger      *logger_i.Logger
}

func NewService(embStore store.EmbeddingStore, llmProvider llm.Provider) Service {
	return &service{
		store:       embStore,
		llmProvider: llmProvider,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// AnswerQuestion retrieves the tenant's most relevant chunks, grounds the
// model on them and fills the job payload with the answer plus the exact
// source chunks used. Empty retrieval short-circuits to a fixed
// no-knowledge answer instead of bothering the model with an empty context.
func (s *service) AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With("traceId", job.TraceId, "jobId", job.Id, "tenant", job.TenantId)

	processCtx, cancel := context.WithTimeout(ctx, config.QueryJobTimeout)
	defer cancel()

	job.CurrentStep = jobModel.RAGCall

	if cached, found := s.executeCacheCheckStep(processCtx, log, &job); found {
		return returnAnswer(job, cached, nil)
	}

	matches, err := s.executeRetrievalStep(processCtx, log, &job)
	if err != nil {
		return s.jobError(job, err, "RETRIEVAL_FAILURE", true)
	}

	if len(matches) == 0 {
		log.Debug("No indexed chunks for tenant, returning fixed answer")
		return returnAnswer(job, config.NoKnowledgeAnswer, nil)
	}

	sources := make([]string, len(matches))
	for i, m := range matches {
		sources[i] = m.Text
	}

	answer, err := s.executeGenerationStep(processCtx, log, &job, sources)
	if err != nil {
		return s.jobError(job, err, "GENERATION_FAILURE", true)
	}

	if strings.TrimSpace(answer) == "" {
		// the caller always gets a non-empty answer field
		return returnAnswer(job, config.GenerationFallback, sources)
	}

	// background cache save, a failure here only costs a future cache hit
	go func() {
		if err := s.store.SaveAnswer(context.WithoutCancel(ctx), job.TenantId, job.JobPayload.Question, answer); err != nil {
			s.logger.Warn("Failed to save answer to cache", "error", err)
		}
	}()

	return returnAnswer(job, answer, sources)
}

// IngestDocuments runs the whole batch and attaches the report. Per-document
// failures live inside the report, the job itself completes either way.
func (s *service) IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureJobMetrics("document_ingestion", time.Since(start)) }()

	processCtx, cancel := context.WithTimeout(ctx, config.IngestJobTimeout)
	defer cancel()

	job.CurrentStep = jobModel.IngestProcessing
	report := ingest.ProcessBatch(processCtx, job.TenantId, job.JobPayload.DocumentURLs, s.store)

	job.JobPayload.Report = &report
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) DeleteTenant(ctx context.Context, tenantID string) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("tenant_delete", time.Since(start)) }()

	if err := s.store.Delete(ctx, tenantID); err != nil {
		s.logger.Error("Tenant delete failed", "tenant", tenantID, "error", err)
		return err
	}
	metrics.IncrementTenantDeletes()
	s.logger.Info("Tenant knowledge base deleted", "tenant", tenantID)
	return nil
}
