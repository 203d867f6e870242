package rag_test

import (
	"context"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
)

// MockEmbeddingStore implements store.EmbeddingStore
type MockEmbeddingStore struct {
	// Control fields to simulate different behaviors
	OnEnsureIndex  func(ctx context.Context) error
	OnUpsert       func(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error)
	OnQuery        func(ctx context.Context, tenantID string, queryText string, topK int) ([]commonModels.ScoredChunk, error)
	OnDelete       func(ctx context.Context, tenantID string) error
	OnCachedAnswer func(ctx context.Context, tenantID string, question string) (string, bool)
	OnSaveAnswer   func(ctx context.Context, tenantID string, question string, answer string) error
}

func (m *MockEmbeddingStore) EnsureIndex(ctx context.Context) error {
	if m.OnEnsureIndex != nil {
		return m.OnEnsureIndex(ctx)
	}
	return nil
}

func (m *MockEmbeddingStore) Upsert(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error) {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, tenantID, chunks)
	}
	return len(chunks), nil
}

func (m *MockEmbeddingStore) Query(ctx context.Context, tenantID string, queryText string, topK int) ([]commonModels.ScoredChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, tenantID, queryText, topK)
	}
	return []commonModels.ScoredChunk{{Chunk: commonModels.Chunk{Text: "default context"}, Score: 0.9}}, nil
}

func (m *MockEmbeddingStore) Delete(ctx context.Context, tenantID string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, tenantID)
	}
	return nil
}

func (m *MockEmbeddingStore) CachedAnswer(ctx context.Context, tenantID string, question string) (string, bool) {
	if m.OnCachedAnswer != nil {
		return m.OnCachedAnswer(ctx, tenantID, question)
	}
	return "", false
}

func (m *MockEmbeddingStore) SaveAnswer(ctx context.Context, tenantID string, question string, answer string) error {
	if m.OnSaveAnswer != nil {
		return m.OnSaveAnswer(ctx, tenantID, question, answer)
	}
	return nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, question string, contextBlock string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, question string, contextBlock string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextBlock)
	}
	return "mocked llm response", nil
}
