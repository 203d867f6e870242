package store

import (
	"context"
	"fmt"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/rag/embedding"
	"github.com/avasanth/chatbot-ai-service/internal/rag/vectorDB"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
	"github.com/google/uuid"
)

// EmbeddingStore is the tenant-scoped index the ingestion and answer paths
// share. It owns embedding computation, so callers deal in text only.
type EmbeddingStore interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error)
	Query(ctx context.Context, tenantID string, queryText string, topK int) ([]commonModels.ScoredChunk, error)
	Delete(ctx context.Context, tenantID string) error

	CachedAnswer(ctx context.Context, tenantID string, question string) (string, bool)
	SaveAnswer(ctx context.Context, tenantID string, question string, answer string) error
}

type embeddingStore struct {
	embedder embedding.Embedder
	index    vectorDB.DataProcessor
	logger   *logger_i.Logger
}

func NewEmbeddingStore(index vectorDB.DataProcessor, embedder embedding.Embedder) EmbeddingStore {
	return &embeddingStore{
		embedder: embedder,
		index:    index,
		logger:   logger_i.NewLogger("EmbeddingStore"),
	}
}

func (s *embeddingStore) EnsureIndex(ctx context.Context) error {
	return s.index.EnsureIndex(ctx)
}

// Upsert embeds the chunks and persists one record each. Record ids are
// {tenant}_{uuid}_{chunkIndex} with a fresh uuid per call, so re-ingesting
// the same document never collides with what an earlier run wrote. The batch
// is all-or-nothing from the caller's point of view: on any error nothing of
// this call should be treated as ingested.
func (s *embeddingStore) Upsert(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, commonModels.NewError(commonModels.KindEmbedding, "embedding document chunks failed", err)
	}

	runID := uuid.New().String()
	records := make([]vectorDB.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorDB.Record{
			ID:             fmt.Sprintf("%s_%s_%d", tenantID, runID, c.Index),
			Vector:         vectors[i],
			TenantID:       tenantID,
			ChunkIndex:     c.Index,
			SourceDocument: c.SourceDocument,
			Text:           c.Text,
		}
	}

	if err := s.index.UpsertRecords(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *embeddingStore) Query(ctx context.Context, tenantID string, queryText string, topK int) ([]commonModels.ScoredChunk, error) {
	vector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, commonModels.NewError(commonModels.KindEmbedding, "embedding query failed", err)
	}
	return s.index.Search(ctx, tenantID, vector, topK)
}

func (s *embeddingStore) Delete(ctx context.Context, tenantID string) error {
	return s.index.DeleteTenant(ctx, tenantID)
}

// CachedAnswer is best-effort, a cache failure just means a miss.
func (s *embeddingStore) CachedAnswer(ctx context.Context, tenantID string, question string) (string, bool) {
	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		s.logger.Warn("Cache lookup skipped, embedding failed", "error", err)
		return "", false
	}
	answer, found, err := s.index.GetCachedAnswer(ctx, tenantID, vector)
	if err != nil {
		return "", false
	}
	return answer, found
}

func (s *embeddingStore) SaveAnswer(ctx context.Context, tenantID string, question string, answer string) error {
	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return commonModels.NewError(commonModels.KindEmbedding, "embedding question for cache failed", err)
	}
	return s.index.SaveToCache(ctx, tenantID, uuid.New().String(), vector, answer)
}
