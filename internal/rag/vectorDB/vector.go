package vectorDB

import (
	"context"

	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
)

// Record is the persisted unit of the vector index. ID must be globally
// unique across tenants and ingestion runs, the index is the only durable
// store so the chunk text travels in the record as well.
type Record struct {
	ID             string
	Vector         []float32
	TenantID       string
	ChunkIndex     int
	SourceDocument string
	Text           string
}

// DataProcessor is the tenant-isolated vector index. Every read and delete
// takes the tenant id as a hard pre-filter, a search for one tenant can never
// surface a record written under another no matter how similar the vectors
// are.
type DataProcessor interface {
	EnsureIndex(ctx context.Context) error
	UpsertRecords(ctx context.Context, records []Record) error
	Search(ctx context.Context, tenantID string, vector []float32, topK int) ([]commonModels.ScoredChunk, error)
	DeleteTenant(ctx context.Context, tenantID string) error

	GetCachedAnswer(ctx context.Context, tenantID string, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, tenantID string, id string, vector []float32, answer string) error
}
