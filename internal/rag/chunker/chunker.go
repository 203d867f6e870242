package chunker

import "github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"

// Split partitions text into consecutive, non-overlapping windows of
// chunkSize characters. The final window may be shorter, empty text yields no
// chunks. Splitting counts runes so a multi-byte character is never cut in
// half. Chunk.Index is the emission order within the document.
//
// There is deliberately no sentence or paragraph awareness here, joining the
// chunk texts back together reproduces the input exactly.
func Split(text string, sourceDocument string, chunkSize int) []commonModels.Chunk {
	if chunkSize <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]commonModels.Chunk, 0, (len(runes)+chunkSize-1)/chunkSize)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, commonModels.Chunk{
			Text:           string(runes[start:end]),
			Index:          len(chunks),
			SourceDocument: sourceDocument,
		})
	}
	return chunks
}
