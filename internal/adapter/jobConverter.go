package adapter

import (
	"fmt"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/api"
	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
		IngestReport:        ToIngestReport(job.JobPayload.Report),
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatbotID: job.TenantId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Sources) == 0 {
		return nil
	}

	return &api.RAGResponse{
		Question: ragData.Question,
		Answer:   ragData.Answer,
		Sources:  ragData.Sources,
	}
}

func ToIngestReport(report *commonModels.BatchReport) *api.IngestReport {
	if report == nil {
		return nil
	}

	docs := make([]api.DocumentOutcome, len(report.Documents))
	for i, d := range report.Documents {
		docs[i] = api.DocumentOutcome{
			URL:        d.URL,
			ChunkCount: d.ChunkCount,
			Error:      d.Error,
		}
	}
	return &api.IngestReport{
		TotalChunks: report.TotalChunks,
		Documents:   docs,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
