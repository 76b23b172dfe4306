package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// MemoryIndex is the in-memory vector index implementation, selected by the
// memory storage backend. Relevance is a deterministic token-overlap score,
// which is enough for local development and tests without an embedding model
// or a Pinecone index.
type MemoryIndex struct {
	mu     sync.RWMutex
	chunks map[string][]string // document id -> chunks
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{chunks: make(map[string][]string)}
}

func (m *MemoryIndex) IndexChunks(_ context.Context, documentID string, chunks []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]string, len(chunks))
	copy(stored, chunks)
	m.chunks[documentID] = stored
	return nil
}

func (m *MemoryIndex) RetrieveSimilar(_ context.Context, query, documentID string, topK int) ([]Match, error) {
	m.mu.RLock()
	chunks := m.chunks[documentID]
	m.mu.RUnlock()

	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 || len(chunks) == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(chunks))
	for i, chunk := range chunks {
		score := overlapScore(queryTokens, tokenSet(chunk))
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Text: chunk, Score: score, ChunkIndex: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// overlapScore is the fraction of query tokens present in the chunk.
func overlapScore(query, chunk map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for tok := range query {
		if _, ok := chunk[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			set[f] = struct{}{}
		}
	}
	return set
}
