package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	jobmodel "github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/avasanth/chatbot-ai-service/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobDeadline(job.JobType))
	defer cancel()

	logger.Debug("Processing job", "jobId", job.Id, "traceId", job.TraceId)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	if job.JobType == jobmodel.JobTypeIngest {
		job.CurrentStep = jobmodel.IngestProcessing
		job = _ragService.IngestDocuments(ctx, job)
	} else {
		job.CurrentStep = jobmodel.RAGCall
		job = _ragService.AnswerQuestion(ctx, job)
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

// Ingestion fans out across documents and gets the longer deadline.
func jobDeadline(jobType jobmodel.JobType) time.Duration {
	if jobType == jobmodel.JobTypeIngest {
		return config.IngestJobTimeout
	}
	return config.QueryJobTimeout
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
