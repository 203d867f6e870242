package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
	"github.com/avasanth/chatbot-ai-service/internal/rag/vectorDB"
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingDimension)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	holder := &ClientHolder{QObj: client}
	if err := holder.EnsureIndex(ctx); err != nil {
		logger.Error("could not set up collections: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// EnsureIndex creates the chunk and answer-cache collections plus the
// tenant_id payload index if they don't exist yet. Safe to call redundantly
// at every process start, a concurrent "already exists" from the backend
// counts as success.
func (db *ClientHolder) EnsureIndex(ctx context.Context) error {
	for _, name := range []string{config.ChunkCollection, config.AnswerCacheCollection} {
		if err := createCollection(ctx, db.QObj, name); err != nil {
			return commonModels.NewError(commonModels.KindStore, "collection setup failed for "+name, err)
		}
		if err := createTenantFieldIndex(ctx, db.QObj, name); err != nil {
			return commonModels.NewError(commonModels.KindStore, "tenant field index failed for "+name, err)
		}
	}
	return nil
}

func (db *ClientHolder) UpsertRecords(ctx context.Context, records []vectorDB.Record) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(records))

	for i, record := range records {
		qdrantPoints[i] = &qdrant.PointStruct{
			// Qdrant only accepts UUIDs or integers as point ids, so the
			// record id is hashed into a UUID and kept verbatim in the
			// payload. Distinct record ids always hash to distinct UUIDs.
			Id:      qdrant.NewID(pointID(record.ID)),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"record_id":       record.ID,
				"tenant_id":       record.TenantID,
				"chunk_index":     int64(record.ChunkIndex),
				"source_document": record.SourceDocument,
				"text":            record.Text,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.ChunkCollection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return commonModels.NewError(commonModels.KindStore, "qdrant upsert failed", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, tenantID string, vector []float32, topK int) ([]commonModels.ScoredChunk, error) {
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.ChunkCollection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         tenantFilter(tenantID),
	})
	if err != nil {
		logger.Error("Error querying Qdrant: ", "error:", err)
		return nil, commonModels.NewError(commonModels.KindStore, "qdrant query failed", err)
	}

	matches := make([]commonModels.ScoredChunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, commonModels.ScoredChunk{
			Chunk: commonModels.Chunk{
				Text:           hit.Payload["text"].GetStringValue(),
				Index:          int(hit.Payload["chunk_index"].GetIntegerValue()),
				SourceDocument: hit.Payload["source_document"].GetStringValue(),
			},
			Score: hit.Score,
		})
	}
	return matches, nil
}

// DeleteTenant removes every record of the tenant from the chunk index and
// the answer cache. Idempotent: a tenant with nothing indexed deletes
// successfully. One bounded retry, the operation has no other side effects.
func (db *ClientHolder) DeleteTenant(ctx context.Context, tenantID string) error {
	for _, name := range []string{config.ChunkCollection, config.AnswerCacheCollection} {
		err := db.deleteByTenant(ctx, name, tenantID)
		if err != nil {
			logger.Warn("Tenant delete failed, retrying once", "collection", name, "error", err)
			err = db.deleteByTenant(ctx, name, tenantID)
		}
		if err != nil {
			return commonModels.NewError(commonModels.KindStore, "qdrant delete failed for "+name, err)
		}
	}
	return nil
}

func (db *ClientHolder) deleteByTenant(ctx context.Context, collectionName string, tenantID string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelectorFilter(tenantFilter(tenantID)),
		Wait:           qdrant.PtrOf(true),
	})
	if status.Code(err) == codes.NotFound {
		// nothing stored for this tenant yet
		return nil
	}
	return err
}

func tenantFilter(tenantID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("tenant_id", tenantID),
		},
	}
}

func pointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && isAlreadyExists(err) {
		// lost the race against a sibling process doing the same setup
		return nil
	}
	return err
}

func createTenantFieldIndex(ctx context.Context, client *qdrant.Client, collectionName string) error {
	_, err := client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collectionName,
		FieldName:      "tenant_id",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil && isAlreadyExists(err) {
		return nil
	}
	return err
}

func isAlreadyExists(err error) bool {
	if status.Code(err) == codes.AlreadyExists {
		return true
	}
	return strings.Contains(strings.ToLower(fmt.Sprint(err)), "already exists")
}
