package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api     openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
}

// GetOpenAIEmbeddingClient is the alternate embedding backend, selected with
// EMBEDDING_PROVIDER=openai. Vectors are requested at the same dimension as
// the Google backend so the index schema stays identical.
func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("Missing OpenAI API key")
			return
		}
		embeddingClient = &client{
			api:     openai.NewClient(option.WithAPIKey(apikey)),
			model:   openai.EmbeddingModel(modelName),
			limiter: rate.NewLimiter(rate.Limit(config.EmbeddingCallsPerSecond), config.EmbeddingBurst),
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.doCall(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.doCall(ctx, texts)
}

func (c *client) doCall(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      c.model,
		Dimensions: openai.Int(int64(config.EmbeddingDimension)),
	})
	if err != nil {
		logger.Error("Error getting embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, errors.New("embedding count does not match input count")
	}

	vectors := make([][]float32, len(res.Data))
	for _, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[int(d.Index)] = vec
	}
	return vectors, nil
}
