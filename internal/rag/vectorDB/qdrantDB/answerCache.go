package qdrantDB

import (
	"context"
	"time"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

// The answer cache lives in its own collection but follows the same tenant
// rule as the chunk index: lookups are pre-filtered by tenant_id, one
// chatbot's cached answers are invisible to every other.

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, tenantID string, queryVector []float32) (string, bool, error) {
	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.AnswerCacheCollection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         tenantFilter(tenantID),
	})
	if err != nil {
		logger.Error("Cache query failed", "error", err)
		return "", false, err
	}
	if len(searchResult) == 0 {
		return "", false, nil
	}

	if searchResult[0].Score < config.AnswerCacheCutoff {
		return "", false, nil
	}

	logger.Debug("Answer cache hit", "tenant", tenantID, "score", searchResult[0].Score)
	answer := searchResult[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, tenantID string, id string, vector []float32, answer string) error {
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.AnswerCacheCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"tenant_id": tenantID,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		logger.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
