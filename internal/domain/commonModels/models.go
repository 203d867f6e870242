package commonModels

// Chunk is one fixed-size slice of a document's extracted text. Chunks only
// live for the duration of an ingestion, what gets persisted is the indexed
// record the embedding store builds from them.
type Chunk struct {
	Text           string `json:"text"`
	Index          int    `json:"index"`
	SourceDocument string `json:"source_document"`
}

// ScoredChunk is a retrieval hit, most similar first when returned in a slice.
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}

// DocumentResult is the per-URL outcome of one ingestion batch. Error is empty
// on success.
type DocumentResult struct {
	URL        string `json:"url"`
	ChunkCount int    `json:"chunk_count"`
	Error      string `json:"error,omitempty"`
}

func (r DocumentResult) Succeeded() bool {
	return r.Error == ""
}

// BatchReport aggregates one ingestion request. Documents keeps the input
// order of the URLs regardless of how they were processed. TotalChunks counts
// chunks of successful documents only.
type BatchReport struct {
	TotalChunks int              `json:"total_chunks"`
	Documents   []DocumentResult `json:"documents"`
}

func (b BatchReport) FailureCount() int {
	failed := 0
	for _, d := range b.Documents {
		if !d.Succeeded() {
			failed++
		}
	}
	return failed
}
