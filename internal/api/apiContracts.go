package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatbotID string            `json:"chatbot_id" example:"bot_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// IngestReport mirrors the batch outcome, one entry per submitted URL in
// submission order.
type IngestReport struct {
	TotalChunks int               `json:"total_chunks"`
	Documents   []DocumentOutcome `json:"documents"`
}

type DocumentOutcome struct {
	URL        string `json:"url"`
	ChunkCount int    `json:"chunk_count"`
	Error      string `json:"error,omitempty"`
}

type Result struct {
	Status              string       `json:"status"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
	IngestReport        *IngestReport `json:"ingest_report,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DeleteResponse struct {
	TenantID string `json:"tenant_id"`
	Deleted  bool   `json:"deleted"`
}

// requests---------------------

type QueryRequest struct {
	ChatbotID string `json:"chatbot_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

type IngestRequest struct {
	ChatbotID string   `json:"chatbot_id" validate:"required"`
	URLs      []string `json:"urls" validate:"required"`
}
