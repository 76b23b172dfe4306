package retrieval

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Embedder turns text into the vector representation the index stores.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type geminiEmbedder struct {
	model *genai.EmbeddingModel
}

// NewGeminiEmbedder embeds text with Gemini's embedding-001 model, the same
// model used when the document chunks were indexed.
func NewGeminiEmbedder(ctx context.Context, apiKey string) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client for embeddings: %w", err)
	}
	return &geminiEmbedder{model: client.EmbeddingModel("embedding-001")}, nil
}

func (e *geminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding model returned no values")
	}
	return res.Embedding.Values, nil
}
