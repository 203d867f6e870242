package llm

import "context"

// Provider generates an answer to question grounded in contextBlock, the
// delimiter-joined retrieved chunks. An empty contextBlock is allowed, the
// model is instructed to admit ignorance in that case.
type Provider interface {
	Generate(ctx context.Context, question string, contextBlock string) (string, error)
}
