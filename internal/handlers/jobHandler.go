package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/api"
	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/avasanth/chatbot-ai-service/internal/job"
	"github.com/avasanth/chatbot-ai-service/internal/metrics"
	"github.com/avasanth/chatbot-ai-service/internal/rag"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.Info("Queueing new job", "traceId", newJob.traceId, "jobId", newJob.id, "tenant", newJob.tenantId)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func DeleteTenantKnowledge(ctx context.Context, tenantID string) error {
	return handlerInstance.ragService.DeleteTenant(ctx, tenantID)
}

func ValidateQueryRequest(req api.QueryRequest) bool {
	if handlerInstance == nil {
		return false
	}
	return req.ChatbotID != "" && req.Question != ""
}

func ValidateIngestRequest(req api.IngestRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if req.ChatbotID == "" || len(req.URLs) == 0 {
		return false
	}
	for _, u := range req.URLs {
		if u == "" {
			return false
		}
	}
	return true
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.TenantId = newJob.tenantId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.isDocumentIngest {
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.DocumentURLs = newJob.documentURLs
	} else {
		_job.JobType = jobModel.JobTypeQuery
		_job.JobPayload.Question = newJob.question
		_job.CurrentStep = jobModel.QuestionInit
	}

	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send, keeps the queue bounded

	// A new worker is added every N queued requests, and always for an
	// ingestion job since those fan out across documents and hold a worker
	// much longer. Idle workers retire on their own.
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		h.service.DispatcherChannel <- true
	}
}
