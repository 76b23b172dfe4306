package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hnam209/studypilot/internal/retrieval"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxContentItems = 15
	relevanceThreshold     = 0.6
	matchesPerQuery        = 5
	fallbackTopK           = 10

	// Sentinel topic for content found via the generic fallback query. It is
	// routed into the notes but never reported as a covered topic.
	GeneralContentTopic = "general_content"

	fallbackQuery      = "main concepts key information important topics"
	fallbackQueryLabel = "general_search"

	contentSourceTag = "document_content"
)

// Paraphrased query battery expanded per weak topic; the %s is the topic.
var topicQueryTemplates = []string{
	"What is %s? Definition and explanation",
	"Explain %s in detail with examples",
	"How does %s work? Process and mechanism",
	"%s definition examples applications",
	"Key concepts related to %s",
	"Important aspects of %s",
	"Understanding %s fundamentals",
	"%s principles and theory",
}

// RetrievedContentItem is one deduplicated passage retrieved for a weak
// topic. (Topic, ChunkIndex) is the uniqueness key; the higher-scoring
// duplicate wins.
type RetrievedContentItem struct {
	Topic          string  `json:"topic"`
	Query          string  `json:"query"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
	ChunkIndex     int     `json:"chunk_index"`
	Source         string  `json:"source"`
}

// ContentAggregator expands weak topics into a multi-query semantic search
// over one document and merges the results. Individual retrieval failures
// are skipped; a completely unavailable retriever yields an empty result.
type ContentAggregator interface {
	Aggregate(ctx context.Context, weakTopics []string, documentID string, maxItems int) []RetrievedContentItem
}

type contentAggregator struct {
	retriever    retrieval.Retriever
	queryTimeout time.Duration
}

func NewContentAggregator(retriever retrieval.Retriever) ContentAggregator {
	return &contentAggregator{retriever: retriever, queryTimeout: 15 * time.Second}
}

func (c *contentAggregator) Aggregate(ctx context.Context, weakTopics []string, documentID string, maxItems int) []RetrievedContentItem {
	if maxItems <= 0 {
		maxItems = defaultMaxContentItems
	}

	items := c.fanOut(ctx, weakTopics, documentID)

	// Nothing matched any weak-topic query (no topics, or the index has no
	// close content): fall back to one generic query so the synthesizer
	// still gets whatever the document can offer.
	if len(items) == 0 {
		log.Info().Str("documentId", documentID).Msg("No topic-specific content found, trying generic document content")
		matches, err := c.retrieve(ctx, fallbackQuery, documentID, fallbackTopK)
		if err != nil {
			log.Warn().Err(err).Str("documentId", documentID).Msg("Fallback content query failed")
		}
		for _, m := range matches {
			items = append(items, RetrievedContentItem{
				Topic:          GeneralContentTopic,
				Query:          fallbackQueryLabel,
				Content:        m.Text,
				RelevanceScore: m.Score,
				ChunkIndex:     m.ChunkIndex,
				Source:         contentSourceTag,
			})
		}
	}

	items = dedupeByTopicChunk(items)

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RelevanceScore != items[j].RelevanceScore {
			return items[i].RelevanceScore > items[j].RelevanceScore
		}
		// Deterministic tie-break so concurrent retrieval is not observable
		// in the output ordering.
		if items[i].Topic != items[j].Topic {
			return items[i].Topic < items[j].Topic
		}
		return items[i].ChunkIndex < items[j].ChunkIndex
	})

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

// fanOut issues every (topic, query template) pair concurrently and collects
// the matches above the relevance threshold. Failed queries are logged and
// skipped.
func (c *contentAggregator) fanOut(ctx context.Context, weakTopics []string, documentID string) []RetrievedContentItem {
	type queryJob struct {
		topic string
		query string
	}

	var jobs []queryJob
	for _, topic := range weakTopics {
		for _, tmpl := range topicQueryTemplates {
			jobs = append(jobs, queryJob{topic: topic, query: fmt.Sprintf(tmpl, topic)})
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make(chan []RetrievedContentItem, len(jobs))

	for _, job := range jobs {
		wg.Add(1)
		go func(job queryJob) {
			defer wg.Done()

			matches, err := c.retrieve(ctx, job.query, documentID, matchesPerQuery)
			if err != nil {
				log.Warn().Err(err).Str("topic", job.topic).Str("query", job.query).Msg("Content retrieval failed for query, skipping")
				return
			}

			var found []RetrievedContentItem
			for _, m := range matches {
				if m.Score <= relevanceThreshold {
					continue
				}
				found = append(found, RetrievedContentItem{
					Topic:          job.topic,
					Query:          job.query,
					Content:        m.Text,
					RelevanceScore: m.Score,
					ChunkIndex:     m.ChunkIndex,
					Source:         contentSourceTag,
				})
			}
			if len(found) > 0 {
				results <- found
			}
		}(job)
	}

	wg.Wait()
	close(results)

	var items []RetrievedContentItem
	for batch := range results {
		items = append(items, batch...)
	}
	return items
}

func (c *contentAggregator) retrieve(ctx context.Context, query, documentID string, topK int) ([]retrieval.Match, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()
	return c.retriever.RetrieveSimilar(queryCtx, query, documentID, topK)
}

func dedupeByTopicChunk(items []RetrievedContentItem) []RetrievedContentItem {
	best := make(map[string]RetrievedContentItem, len(items))
	var order []string
	for _, item := range items {
		key := fmt.Sprintf("%s_%d", item.Topic, item.ChunkIndex)
		existing, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = item
			continue
		}
		if item.RelevanceScore > existing.RelevanceScore {
			best[key] = item
		}
	}

	out := make([]RetrievedContentItem, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
