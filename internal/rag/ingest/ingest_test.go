package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
)

type mockStore struct {
	mu         sync.Mutex
	upserts    map[string][]commonModels.Chunk
	upsertFunc func(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error)
}

func newMockStore() *mockStore {
	return &mockStore{upserts: make(map[string][]commonModels.Chunk)}
}

func (m *mockStore) EnsureIndex(ctx context.Context) error { return nil }

func (m *mockStore) Upsert(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, tenantID, chunks)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[tenantID] = append(m.upserts[tenantID], chunks...)
	return len(chunks), nil
}

func (m *mockStore) Query(ctx context.Context, tenantID string, q string, topK int) ([]commonModels.ScoredChunk, error) {
	return nil, nil
}

func (m *mockStore) Delete(ctx context.Context, tenantID string) error { return nil }

func (m *mockStore) CachedAnswer(ctx context.Context, tenantID string, q string) (string, bool) {
	return "", false
}

func (m *mockStore) SaveAnswer(ctx context.Context, tenantID string, q string, a string) error {
	return nil
}

func docServer(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProcessBatch_FailureIsolation(t *testing.T) {
	srv := docServer(t, map[string]string{
		"/a.txt": strings.Repeat("a", 600),
		"/c.txt": strings.Repeat("c", 100),
	})

	urls := []string{srv.URL + "/a.txt", srv.URL + "/missing.txt", srv.URL + "/c.txt"}
	report := ProcessBatch(context.Background(), "bot1", urls, newMockStore())

	if len(report.Documents) != 3 {
		t.Fatalf("got %d document results, want 3", len(report.Documents))
	}
	if !report.Documents[0].Succeeded() || report.Documents[0].ChunkCount != 2 {
		t.Errorf("doc 0: %+v", report.Documents[0])
	}
	if report.Documents[1].Succeeded() {
		t.Errorf("doc 1 should have failed: %+v", report.Documents[1])
	}
	if !report.Documents[2].Succeeded() || report.Documents[2].ChunkCount != 1 {
		t.Errorf("doc 2: %+v", report.Documents[2])
	}
	if report.TotalChunks != 3 {
		t.Errorf("total chunks %d, want 3 (successes only)", report.TotalChunks)
	}
	if report.FailureCount() != 1 {
		t.Errorf("failure count %d, want 1", report.FailureCount())
	}
}

func TestProcessBatch_PreservesInputOrder(t *testing.T) {
	docs := make(map[string]string)
	var urls []string
	const n = 9

	srv := docServer(t, docs)
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/doc%d.txt", i)
		// i+1 chunks for document i so each slot is distinguishable
		docs[path] = strings.Repeat("x", (i+1)*500)
		urls = append(urls, srv.URL+path)
	}

	report := ProcessBatch(context.Background(), "bot1", urls, newMockStore())

	for i, res := range report.Documents {
		if res.URL != urls[i] {
			t.Errorf("slot %d holds %s, want %s", i, res.URL, urls[i])
		}
		if res.ChunkCount != i+1 {
			t.Errorf("doc %d chunk count %d, want %d", i, res.ChunkCount, i+1)
		}
	}
}

func TestProcessBatch_StoreFailureIsPerDocument(t *testing.T) {
	srv := docServer(t, map[string]string{
		"/a.txt": "first document",
		"/b.txt": "poison document",
	})

	st := newMockStore()
	st.upsertFunc = func(ctx context.Context, tenantID string, chunks []commonModels.Chunk) (int, error) {
		if strings.Contains(chunks[0].SourceDocument, "b.txt") {
			return 0, commonModels.NewError(commonModels.KindStore, "index write failed", errors.New("disk full"))
		}
		return len(chunks), nil
	}

	report := ProcessBatch(context.Background(), "bot1",
		[]string{srv.URL + "/a.txt", srv.URL + "/b.txt"}, st)

	if !report.Documents[0].Succeeded() {
		t.Errorf("doc 0 should succeed: %+v", report.Documents[0])
	}
	if report.Documents[1].Succeeded() {
		t.Error("doc 1 should fail on the store error")
	}
	if !strings.Contains(report.Documents[1].Error, "store") {
		t.Errorf("error should carry the store kind: %q", report.Documents[1].Error)
	}
	if report.TotalChunks != 1 {
		t.Errorf("total chunks %d, want 1", report.TotalChunks)
	}
}

func TestProcessBatch_EmptyDocumentSucceeds(t *testing.T) {
	srv := docServer(t, map[string]string{"/empty.txt": ""})

	report := ProcessBatch(context.Background(), "bot1", []string{srv.URL + "/empty.txt"}, newMockStore())

	if !report.Documents[0].Succeeded() {
		t.Errorf("empty document should not be an error: %+v", report.Documents[0])
	}
	if report.Documents[0].ChunkCount != 0 || report.TotalChunks != 0 {
		t.Errorf("empty document should yield zero chunks: %+v", report)
	}
}

func TestProcessBatch_UnsupportedType(t *testing.T) {
	srv := docServer(t, map[string]string{"/image.png": "not really text"})

	report := ProcessBatch(context.Background(), "bot1", []string{srv.URL + "/image.png"}, newMockStore())

	if report.Documents[0].Succeeded() {
		t.Fatal("unsupported type should fail the document")
	}
	if !strings.Contains(report.Documents[0].Error, "extraction") {
		t.Errorf("expected extraction error, got %q", report.Documents[0].Error)
	}
}

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected docType
	}{
		{"guide.pdf", docTypePDF},
		{"GUIDE.PDF", docTypePDF},
		{"notes.txt", docTypeText},
		{"report.docx", docTypeText},
		{"old.rtf", docTypeText},
		{"image.png", docTypeErr},
		{"noextension", docTypeErr},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}
