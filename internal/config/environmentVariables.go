package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//chunking - fixed windows of this many characters, last one may be shorter
	ChunkSize = 500

	//retrieval
	TopKResults         = 5
	AnswerCacheCutoff   = 0.97
	NoKnowledgeAnswer   = "I don't have any information about that yet. Try ingesting some documents first."
	GenerationFallback  = "I couldn't generate an answer."
	ContextChunkDivider = "\n\n---\n\n"

	//vector index
	EmbeddingDimension    int32 = 768
	ChunkCollection             = "kb-chunks"
	AnswerCacheCollection       = "kb-answer-cache"

	//dynamic worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//ingestion - how many documents of one batch are processed at once
	IngestConcurrency = 4
	MaxDocumentBytes  = 32 << 20 //32mb
	FetchTimeout      = 30 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//per-job processing deadlines
	QueryJobTimeout  = 30 * time.Second
	IngestJobTimeout = 5 * time.Minute

	//vectorDB
	QdrantHost     = "localhost"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false //set for https
	QdrantPoolSize = 1     //2-5 is preferred for prod according to documentation

	//llm
	GeminiModelName = "gemini-2.5-flash"
	SystemContext   = "You are an AI assistant. Answer the question based only on the provided context. If the answer is not in the context, say you don't know."

	//generation sampling - low randomness keeps answers grounded in context
	ModelTemperature     float32 = 0.2
	ModelTopP            float32 = 0.95
	ModelTopK            float32 = 40
	ModelMaxOutputTokens int32   = 1024

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//outbound pacing for the embedding backend, requests per second
	EmbeddingCallsPerSecond = 5
	EmbeddingBurst          = 10

	//http client pooling for document fetches
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore = 0

	RedisJobStoreTTL = 24 * time.Hour
)

// EmbeddingProvider selects which embedding backend to use. "google" is the
// default, "openai" switches to the OpenAI API.
func EmbeddingProvider() string {
	if p := os.Getenv("EMBEDDING_PROVIDER"); p != "" {
		return p
	}
	return "google"
}

func GoogleAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
