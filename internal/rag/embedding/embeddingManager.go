package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. The same backend and
// dimension must be used for documents at write time and queries at read
// time, otherwise similarity scores are meaningless.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
