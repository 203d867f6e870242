package googleEmbedding

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingDimension

type client struct {
	genAi   *genai.Client
	model   string
	limiter *rate.Limiter
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi:   c,
			model:   modelName,
			limiter: rate.NewLimiter(rate.Limit(config.EmbeddingCallsPerSecond), config.EmbeddingBurst),
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := c.doCall(ctx, genai.Text(text), "RETRIEVAL_QUERY")
	if err != nil {
		logger.Error("Error getting query embedding from Google", "error", err.Error())
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(texts), "RETRIEVAL_DOCUMENT")
	if err != nil || res == nil {
		if doRetry(err, logger) {
			time.Sleep(5 * time.Second)
			logger.Debug("Retrying embedding call after rate limit")
			res, err = c.doCall(ctx, getContent(texts), "RETRIEVAL_DOCUMENT")
		}
		if err != nil {
			logger.Error("Error getting document embeddings from Google", "error", err.Error())
			return nil, err
		}
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	if len(vectors) != len(texts) {
		return nil, errors.New("embedding count does not match input count")
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             taskType,
	})
}
