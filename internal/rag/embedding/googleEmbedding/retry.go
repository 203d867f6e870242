package googleEmbedding

import (
	"github.com/avasanth/chatbot-ai-service/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

// doRetry reports whether the failed call hit the backend's rate limit.
// Embedding is a pure read so one bounded retry is safe, nothing else is
// retried.
func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Warn("Rate limit hit on embedding backend", "error", err)
			return true
		}
	}
	return false
}
