package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/hnam209/studypilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedAnalyticsNotes persists one artifact per score, in chronological order.
func seedAnalyticsNotes(t *testing.T, f *notesFixture, userID string, scores []float64, weakTopics [][]string) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range scores {
		var topics []string
		if i < len(weakTopics) {
			topics = weakTopics[i]
		}
		require.NoError(t, f.store.Notes().Create(&model.StudyNotes{
			ID:     fmt.Sprintf("notes-%d", i),
			UserID: userID,
			PerformanceSummary: model.PerformanceSummary{
				Score:      score,
				WeakTopics: topics,
			},
			CreatedAt: base.AddDate(0, 0, i),
		}))
	}
}

func TestGetPerformanceAnalytics_NoNotes(t *testing.T) {
	f := newNotesFixture(t)

	resp, err := f.service.GetPerformanceAnalytics("user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalNotes)
	assert.Zero(t, resp.AverageScore)
	assert.Equal(t, TrendNoData, resp.ImprovementTrend)
	assert.Empty(t, resp.CommonWeakAreas)
	assert.Equal(t, []string{"Start taking quizzes to get personalized study recommendations"}, resp.StudyRecommendations)
	assert.Nil(t, resp.LastStudySession)
}

func TestGetPerformanceAnalytics_AggregatesArtifacts(t *testing.T) {
	f := newNotesFixture(t)
	seedAnalyticsNotes(t, f, "user-1",
		[]float64{50, 60, 90, 95, 96},
		[][]string{
			{"gradient_descent", "activation_functions"},
			{"gradient_descent"},
			{"gradient_descent"},
			nil,
			nil,
		})

	resp, err := f.service.GetPerformanceAnalytics("user-1")
	require.NoError(t, err)

	assert.Equal(t, 5, resp.TotalNotes)
	// (50+60+90+95+96)/5 = 78.2
	assert.InDelta(t, 78.2, resp.AverageScore, 0.001)
	// recent [90 95 96] vs older [50 60]
	assert.Equal(t, TrendImproving, resp.ImprovementTrend)

	require.NotEmpty(t, resp.CommonWeakAreas)
	assert.Equal(t, "gradient_descent", resp.CommonWeakAreas[0].Topic)
	assert.Equal(t, 3, resp.CommonWeakAreas[0].Frequency)

	assert.Contains(t, resp.StudyRecommendations, "Work on consistency across different topics")
	assert.Contains(t, resp.StudyRecommendations, "Consider additional study on 'gradient_descent' - appears frequently in weak areas")

	require.NotNil(t, resp.LastStudySession)
	assert.Equal(t, time.Date(2026, 8, 5, 12, 0, 0, 0, time.UTC), *resp.LastStudySession)
}

func TestGetPerformanceAnalytics_ScopedToUser(t *testing.T) {
	f := newNotesFixture(t)
	seedAnalyticsNotes(t, f, "user-2", []float64{80}, nil)

	resp, err := f.service.GetPerformanceAnalytics("user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalNotes)
	assert.Equal(t, TrendNoData, resp.ImprovementTrend)
}

func TestImprovementTrend_Bands(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"single score", []float64{80}, TrendInsufficientData},
		{"two rising within band", []float64{70, 72}, TrendStable},
		{"two rising past band", []float64{60, 80}, TrendImproving},
		{"recent window falls off", []float64{95, 90, 40, 42, 41}, TrendDeclining},
		{"flat history", []float64{75, 75, 75, 75}, TrendStable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, improvementTrend(tc.scores), tc.name)
	}
}

func TestCommonWeakAreas_RankedAndCapped(t *testing.T) {
	topics := []string{"a", "b", "b", "c", "c", "c", "d", "e", "f", "g"}

	areas := commonWeakAreas(topics, 5)

	require.Len(t, areas, 5)
	assert.Equal(t, "c", areas[0].Topic)
	assert.Equal(t, 3, areas[0].Frequency)
	assert.Equal(t, "b", areas[1].Topic)
	// Equal counts keep first-seen order.
	assert.Equal(t, "a", areas[2].Topic)
	assert.Equal(t, "d", areas[3].Topic)
}

func TestOverallRecommendations_ScoreBands(t *testing.T) {
	assert.Contains(t, overallRecommendations(55, nil), "Focus on building stronger foundational knowledge")
	assert.Contains(t, overallRecommendations(78, nil), "Work on consistency across different topics")
	assert.Contains(t, overallRecommendations(92, nil), "Excellent progress! Continue with advanced practice")

	withTopics := overallRecommendations(92, []string{"recursion"})
	assert.Contains(t, withTopics, "Consider additional study on 'recursion' - appears frequently in weak areas")
}
