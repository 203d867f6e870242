// @title           Chatbot Knowledge Base API
// @version         1.0
// @description     Multi-tenant document ingestion and retrieval-augmented question answering.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/data/store"
	jobmodel "github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/avasanth/chatbot-ai-service/internal/handlers"
	"github.com/avasanth/chatbot-ai-service/internal/job"
	"github.com/avasanth/chatbot-ai-service/internal/rag"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding/googleEmbedding"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding/openaiEmbedding"
	"github.com/avasanth/chatbot-ai-service/internal/rag/llm/gemini"
	ragstore "github.com/avasanth/chatbot-ai-service/internal/rag/store"
	"github.com/avasanth/chatbot-ai-service/internal/rag/vectorDB/qdrantDB"
	"github.com/avasanth/chatbot-ai-service/internal/server"
	"github.com/avasanth/chatbot-ai-service/internal/worker"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	var jobStore jobmodel.JobStore
	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		jobStore = redisJobStore
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory store")
		jobStore = store.InitInMemoryJobStore()
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorIndex := qdrantDB.GetQdrantClient(serviceContext)
	embedder := buildEmbedder(serviceContext, logger)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())

	if vectorIndex == nil || embedder == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services", "VectorDB", vectorIndex != nil, "Embedder", embedder != nil, "LLMProvider", llmProvider != nil)
		return
	}

	embStore := ragstore.NewEmbeddingStore(vectorIndex, embedder)
	if err := embStore.EnsureIndex(serviceContext); err != nil {
		logger.Error("Could not prepare vector collections", "error", err)
		return
	}

	ragService := rag.NewService(embStore, llmProvider)

	handlers.InitJobHandler(service, ragService)

	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	switch config.EmbeddingProvider() {
	case "openai":
		logger.Info("Using OpenAI embeddings", "model", config.OpenAIEmbeddingModel)
		return openaiEmbedding.GetOpenAIEmbeddingClient(ctx, config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	default:
		logger.Info("Using Google embeddings", "model", config.GoogleEmbeddingModel)
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	}
}
