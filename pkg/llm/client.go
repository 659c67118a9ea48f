package llm

import "context"

// EmbeddingDimensions is the vector size of the embedding deployment.
// Callers building degraded (all-zero) vectors must use the same size.
const EmbeddingDimensions = 1536

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role    string
	Content string
}

type ChatClient interface {
	Complete(ctx context.Context, system string, turns []Turn, maxTokens int, temperature float64) (string, error)
	ModelName() string
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
