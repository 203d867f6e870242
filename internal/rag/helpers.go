package rag

import (
	"context"
	"strings"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/avasanth/chatbot-ai-service/internal/metrics"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (string, bool) {
	job.CurrentStep = jobModel.CacheCall
	start := time.Now()
	answer, found := s.store.CachedAnswer(ctx, job.TenantId, job.JobPayload.Question)
	metrics.CaptureExecutionMetrics("answer_cache", time.Since(start))
	if found {
		log.Debug("Answer cache hit")
	}
	return answer, found
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]commonModels.ScoredChunk, error) {
	job.CurrentStep = jobModel.VectorDBCall
	start := time.Now()
	matches, err := s.store.Query(ctx, job.TenantId, job.JobPayload.Question, config.TopKResults)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		log.Error("Retrieval failed", "error", err)
		return nil, err
	}
	log.Debug("Retrieved chunks", "count", len(matches))
	return matches, nil
}

func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, sources []string) (string, error) {
	job.CurrentStep = jobModel.LLMCall
	contextBlock := strings.Join(sources, config.ContextChunkDivider)

	start := time.Now()
	answer, err := s.llmProvider.Generate(ctx, job.JobPayload.Question, contextBlock)
	metrics.CaptureExecutionMetrics("llm_generate", time.Since(start))
	if err != nil {
		log.Error("Generation failed", "error", err)
		return "", err
	}
	return answer, nil
}

func returnAnswer(job jobModel.Job, answer string, sources []string) jobModel.Job {
	job.JobPayload.Answer = answer
	job.JobPayload.Sources = sources
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) jobError(job jobModel.Job, err error, label string, retry bool) jobModel.Job {
	job.Status = jobModel.JobStatusError
	job.Error = jobModel.JobError{
		Code:    500,
		Message: label + ": " + err.Error(),
		Retry:   retry,
	}
	return job
}
