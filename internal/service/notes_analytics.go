package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/hnam209/studypilot/internal/dto"
)

const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
	TrendNoData           = "no_data"
)

// GetPerformanceAnalytics aggregates every study-notes artifact of the user
// into score trends, recurring weak areas and overall recommendations.
func (s *NotesService) GetPerformanceAnalytics(userID string) (*dto.PerformanceAnalyticsResponse, error) {
	notes, err := s.notesRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study notes: %w", err)
	}
	if len(notes) == 0 {
		return &dto.PerformanceAnalyticsResponse{
			ImprovementTrend:     TrendNoData,
			CommonWeakAreas:      []dto.WeakAreaFrequency{},
			StudyRecommendations: []string{"Start taking quizzes to get personalized study recommendations"},
		}, nil
	}

	// The repository lists newest-first; trend math wants chronological order.
	scores := make([]float64, len(notes))
	var weakTopics []string
	for i := range notes {
		n := notes[len(notes)-1-i]
		scores[i] = n.PerformanceSummary.Score
		weakTopics = append(weakTopics, n.PerformanceSummary.WeakTopics...)
	}

	var total float64
	for _, score := range scores {
		total += score
	}
	average := total / float64(len(scores))

	lastSession := notes[0].CreatedAt
	return &dto.PerformanceAnalyticsResponse{
		TotalNotes:           len(notes),
		AverageScore:         math.Round(average*10) / 10,
		ImprovementTrend:     improvementTrend(scores),
		CommonWeakAreas:      commonWeakAreas(weakTopics, 5),
		StudyRecommendations: overallRecommendations(average, weakTopics),
		LastStudySession:     &lastSession,
	}, nil
}

// improvementTrend compares the last three scores against everything before
// them, with a 5-point dead band. Scores must be chronological.
func improvementTrend(scores []float64) string {
	if len(scores) < 2 {
		return TrendInsufficientData
	}

	recent := scores
	older := scores[:1]
	if len(scores) > 3 {
		recent = scores[len(scores)-3:]
		older = scores[:len(scores)-3]
	}

	recentAvg := mean(recent)
	olderAvg := mean(older)
	switch {
	case recentAvg > olderAvg+5:
		return TrendImproving
	case recentAvg < olderAvg-5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// commonWeakAreas ranks topics by how often they recur, keeping first-seen
// order among equal counts so the output is deterministic.
func commonWeakAreas(topics []string, limit int) []dto.WeakAreaFrequency {
	counts := make(map[string]int)
	var order []string
	for _, topic := range topics {
		if counts[topic] == 0 {
			order = append(order, topic)
		}
		counts[topic]++
	}

	areas := make([]dto.WeakAreaFrequency, 0, len(order))
	for _, topic := range order {
		areas = append(areas, dto.WeakAreaFrequency{Topic: topic, Frequency: counts[topic]})
	}
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Frequency > areas[j].Frequency })
	return topN(areas, limit)
}

func overallRecommendations(averageScore float64, weakTopics []string) []string {
	var recs []string
	switch {
	case averageScore < 70:
		recs = append(recs, "Focus on building stronger foundational knowledge")
	case averageScore < 85:
		recs = append(recs, "Work on consistency across different topics")
	default:
		recs = append(recs, "Excellent progress! Continue with advanced practice")
	}

	if areas := commonWeakAreas(weakTopics, 1); len(areas) > 0 {
		recs = append(recs, fmt.Sprintf("Consider additional study on '%s' - appears frequently in weak areas", areas[0].Topic))
	}
	return recs
}
