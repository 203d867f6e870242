package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/avasanth/chatbot-ai-service/internal/adapter"
	"github.com/avasanth/chatbot-ai-service/internal/adapter/utils"
	"github.com/avasanth/chatbot-ai-service/internal/api"
	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id               string
	tenantId         string
	question         string
	traceId          string
	isDocumentIngest bool
	documentURLs     []string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// QueryHandler godoc
// @Summary      Ask a question against a chatbot's knowledge base
// @Description  Accepts a question scoped to a chatbot, queues a background answering job, and returns a job ID to track status.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest     true  "Chatbot ID and question"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, request *http.Request) {

	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateQueryRequest(requestData) {
		logRH.Warn("Bad Query Request", "error", err, "chatbot", requestData.ChatbotID)
		WriteErrorResponse(w, http.StatusBadRequest, "", "chatbot_id and question are required")
		return
	}

	newJob := newJobData{
		id:       utils.GetNewUUID(),
		tenantId: requestData.ChatbotID,
		question: requestData.Question,
		traceId:  request.Context().Value(config.TRACE_ID_KEY).(string),
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// IngestHandler godoc
// @Summary      Ingest documents into a chatbot's knowledge base
// @Description  Accepts a batch of document URLs, queues a background ingestion job, and returns a job ID. The job report lists the per-document outcome.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest    true  "Chatbot ID and document URLs"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /ingest [post]
func IngestHandler(w http.ResponseWriter, request *http.Request) {

	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.IngestRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateIngestRequest(requestData) {
		logRH.Warn("Bad Ingest Request", "error", err, "chatbot", requestData.ChatbotID)
		WriteErrorResponse(w, http.StatusBadRequest, "", "chatbot_id and a non-empty urls list are required")
		return
	}

	newJob := newJobData{
		id:               utils.GetNewUUID(),
		tenantId:         requestData.ChatbotID,
		traceId:          request.Context().Value(config.TRACE_ID_KEY).(string),
		isDocumentIngest: true,
		documentURLs:     requestData.URLs,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// DeleteTenantHandler godoc
// @Summary      Delete a chatbot's knowledge base
// @Description  Removes every indexed chunk and cached answer belonging to the chatbot. Deleting an unknown chatbot is a no-op.
// @Tags         Tenants
// @Produce      json
// @Param        id   path      string  true  "Chatbot ID"
// @Success      200  {object}  api.DeleteResponse  "Knowledge base removed"
// @Failure      500  {object}  api.JobResponse     "Vector store failure"
// @Router       /tenants/{id} [delete]
func DeleteTenantHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	tenantID := utils.GetChiURLParam(r, "id")
	if tenantID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "chatbot id is required")
		return
	}

	if err := DeleteTenantKnowledge(r.Context(), tenantID); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, tenantID, "Could not delete knowledge base")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{TenantID: tenantID, Deleted: true})
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("Couldn't close request body", "error", err)
	}
}
