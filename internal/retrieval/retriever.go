package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hnam209/studypilot/internal/retry"
	"github.com/rs/zerolog/log"
)

// Match is one ranked passage returned from the semantic index.
type Match struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"` // 0-1
	ChunkIndex int     `json:"chunk_index"`
}

// Retriever is the semantic-search capability consumed by the content
// aggregator. Implementations never return an error for "no results": an
// empty slice means the index has nothing for this query.
type Retriever interface {
	RetrieveSimilar(ctx context.Context, query, documentID string, topK int) ([]Match, error)
}

// Indexer stores embedded document chunks so they can later be retrieved.
type Indexer interface {
	IndexChunks(ctx context.Context, documentID string, chunks []string) error
}

// VectorIndex couples both sides of the index.
type VectorIndex interface {
	Retriever
	Indexer
}

type pineconeIndex struct {
	client   PineconeClient
	embedder Embedder
	host     string
	policy   retry.Policy
}

// NewPineconeIndex wires the Pinecone-backed vector index. When the index
// host is not configured it is resolved once via describe_index.
func NewPineconeIndex(ctx context.Context, client PineconeClient, embedder Embedder, indexName, indexHost string) (VectorIndex, error) {
	if client == nil {
		return nil, fmt.Errorf("pinecone client required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if indexHost == "" {
		desc, err := client.DescribeIndex(ctx, indexName)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe_index failed: %w", err)
		}
		indexHost = desc.Host
		log.Warn().Str("index", indexName).Str("host", indexHost).
			Msg("PINECONE_INDEX_HOST not set, resolved via describe_index")
	}
	return &pineconeIndex{
		client:   client,
		embedder: embedder,
		host:     indexHost,
		policy:   retry.DefaultPolicy(),
	}, nil
}

func (p *pineconeIndex) IndexChunks(ctx context.Context, documentID string, chunks []string) error {
	vectors := make([]Vector, 0, len(chunks))
	for i, chunk := range chunks {
		values, err := p.embedder.EmbedText(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors = append(vectors, Vector{
			ID:     fmt.Sprintf("%s_%d_%s", documentID, i, uuid.NewString()[:8]),
			Values: values,
			Metadata: map[string]any{
				"document_id": documentID,
				"chunk_index": i,
				"text":        chunk,
			},
		})
	}

	err := p.policy.Do(ctx, "pinecone_upsert", func(ctx context.Context) error {
		_, err := p.client.UpsertVectors(ctx, p.host, UpsertRequest{Vectors: vectors})
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert %d vectors: %w", len(vectors), err)
	}
	log.Info().Str("documentId", documentID).Int("chunks", len(vectors)).Msg("Indexed document chunks")
	return nil
}

func (p *pineconeIndex) RetrieveSimilar(ctx context.Context, query, documentID string, topK int) ([]Match, error) {
	values, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var resp *QueryResponse
	err = p.policy.Do(ctx, "pinecone_query", func(ctx context.Context) error {
		resp, err = p.client.Query(ctx, p.host, QueryRequest{
			Vector:          values,
			TopK:            topK,
			Filter:          map[string]any{"document_id": documentID},
			IncludeMetadata: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		text, _ := m.Metadata["text"].(string)
		if text == "" {
			continue
		}
		matches = append(matches, Match{
			Text:       text,
			Score:      clampScore(m.Score),
			ChunkIndex: metadataChunkIndex(m.Metadata),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

func metadataChunkIndex(md map[string]any) int {
	switch v := md["chunk_index"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
