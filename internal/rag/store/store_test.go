package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/rag/vectorDB"
)

type mockEmbedder struct {
	queryFunc func(ctx context.Context, text string) ([]float32, error)
	docsFunc  func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if m.docsFunc != nil {
		return m.docsFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

type mockIndex struct {
	records      []vectorDB.Record
	searchFunc   func(ctx context.Context, tenantID string, vector []float32, topK int) ([]commonModels.ScoredChunk, error)
	deleteCalls  []string
	upsertFunc   func(ctx context.Context, records []vectorDB.Record) error
	ensureCalled int
}

func (m *mockIndex) EnsureIndex(ctx context.Context) error {
	m.ensureCalled++
	return nil
}

func (m *mockIndex) UpsertRecords(ctx context.Context, records []vectorDB.Record) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, records)
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockIndex) Search(ctx context.Context, tenantID string, vector []float32, topK int) ([]commonModels.ScoredChunk, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, tenantID, vector, topK)
	}
	return nil, nil
}

func (m *mockIndex) DeleteTenant(ctx context.Context, tenantID string) error {
	m.deleteCalls = append(m.deleteCalls, tenantID)
	return nil
}

func (m *mockIndex) GetCachedAnswer(ctx context.Context, tenantID string, v []float32) (string, bool, error) {
	return "", false, nil
}

func (m *mockIndex) SaveToCache(ctx context.Context, tenantID string, id string, v []float32, a string) error {
	return nil
}

func sampleChunks(n int) []commonModels.Chunk {
	chunks := make([]commonModels.Chunk, n)
	for i := range chunks {
		chunks[i] = commonModels.Chunk{
			Text:           "chunk " + strconv.Itoa(i),
			Index:          i,
			SourceDocument: "https://example.com/doc.pdf",
		}
	}
	return chunks
}

func TestUpsert_WritesTenantTaggedRecords(t *testing.T) {
	idx := &mockIndex{}
	s := NewEmbeddingStore(idx, &mockEmbedder{})

	count, err := s.Upsert(context.Background(), "bot1", sampleChunks(3))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count got %d, want 3", count)
	}
	if len(idx.records) != 3 {
		t.Fatalf("index received %d records, want 3", len(idx.records))
	}

	for i, r := range idx.records {
		if r.TenantID != "bot1" {
			t.Errorf("record %d tenant %q, want bot1", i, r.TenantID)
		}
		if r.ChunkIndex != i {
			t.Errorf("record %d chunk index %d", i, r.ChunkIndex)
		}
		if !strings.HasPrefix(r.ID, "bot1_") || !strings.HasSuffix(r.ID, "_"+strconv.Itoa(i)) {
			t.Errorf("record id %q does not follow tenant_uuid_index", r.ID)
		}
		if r.Text == "" || r.SourceDocument == "" {
			t.Errorf("record %d lost its payload: %+v", i, r)
		}
	}
}

func TestUpsert_ReingestionNeverCollides(t *testing.T) {
	idx := &mockIndex{}
	s := NewEmbeddingStore(idx, &mockEmbedder{})
	ctx := context.Background()

	// the identical document ingested twice into the same tenant
	if _, err := s.Upsert(ctx, "bot1", sampleChunks(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert(ctx, "bot1", sampleChunks(2)); err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for _, r := range idx.records {
		if seen[r.ID] {
			t.Fatalf("record id %q emitted twice", r.ID)
		}
		seen[r.ID] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct record ids, got %d", len(seen))
	}
}

func TestUpsert_EmbeddingFailure(t *testing.T) {
	idx := &mockIndex{}
	emb := &mockEmbedder{
		docsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("api limit")
		},
	}
	s := NewEmbeddingStore(idx, emb)

	count, err := s.Upsert(context.Background(), "bot1", sampleChunks(2))
	if err == nil {
		t.Fatal("expected error")
	}
	if count != 0 {
		t.Errorf("count got %d, want 0", count)
	}
	if kind := commonModels.KindOf(err); kind != commonModels.KindEmbedding {
		t.Errorf("error kind got %q, want %q", kind, commonModels.KindEmbedding)
	}
	if len(idx.records) != 0 {
		t.Error("nothing should reach the index when embedding fails")
	}
}

func TestUpsert_EmptyBatch(t *testing.T) {
	idx := &mockIndex{}
	s := NewEmbeddingStore(idx, &mockEmbedder{})

	count, err := s.Upsert(context.Background(), "bot1", nil)
	if err != nil || count != 0 {
		t.Errorf("empty batch: got count=%d err=%v", count, err)
	}
}

func TestQuery_PassesTenantThrough(t *testing.T) {
	var gotTenant string
	var gotTopK int
	idx := &mockIndex{
		searchFunc: func(ctx context.Context, tenantID string, vector []float32, topK int) ([]commonModels.ScoredChunk, error) {
			gotTenant = tenantID
			gotTopK = topK
			return []commonModels.ScoredChunk{{Chunk: commonModels.Chunk{Text: "hit"}, Score: 0.9}}, nil
		},
	}
	s := NewEmbeddingStore(idx, &mockEmbedder{})

	results, err := s.Query(context.Background(), "bot2", "what is this", 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if gotTenant != "bot2" || gotTopK != 5 {
		t.Errorf("search called with tenant=%q topK=%d", gotTenant, gotTopK)
	}
	if len(results) != 1 || results[0].Text != "hit" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestQuery_EmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{
		queryFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("backend down")
		},
	}
	s := NewEmbeddingStore(&mockIndex{}, emb)

	_, err := s.Query(context.Background(), "bot1", "q", 5)
	if commonModels.KindOf(err) != commonModels.KindEmbedding {
		t.Errorf("expected embedding kind, got %v", err)
	}
}

func TestDelete_Delegates(t *testing.T) {
	idx := &mockIndex{}
	s := NewEmbeddingStore(idx, &mockEmbedder{})

	if err := s.Delete(context.Background(), "bot1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// calling again must also succeed, the backend treats missing data as ok
	if err := s.Delete(context.Background(), "bot1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if len(idx.deleteCalls) != 2 || idx.deleteCalls[0] != "bot1" {
		t.Errorf("delete calls: %v", idx.deleteCalls)
	}
}
