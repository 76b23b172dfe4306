package dto

import (
	"time"

	"github.com/hnam209/studypilot/internal/model"
)

type GenerateNotesRequest struct {
	QuizAttemptID string `json:"quiz_attempt_id" binding:"required"`
}

type StudyNotesResponse struct {
	ID                 string                   `json:"id"`
	DocumentID         string                   `json:"document_id"`
	QuizAttemptID      string                   `json:"quiz_attempt_id"`
	UserID             string                   `json:"user_id"`
	DocumentTitle      string                   `json:"document_title"`
	GeneratedAt        time.Time                `json:"generated_at"`
	PerformanceSummary model.PerformanceSummary `json:"performance_summary"`
	Body               string                   `json:"study_notes"`
	TopicsCovered      []string                 `json:"topics_covered"`
	ContentSources     int                      `json:"relevant_content_sources"`
	StudyPriority      string                   `json:"study_priority"`
	EstimatedStudyTime string                   `json:"estimated_study_time"`
	NextReviewDate     *string                  `json:"next_review_date,omitempty"`
}

// GenerationStats summarizes one pipeline run for the response envelope.
type GenerationStats struct {
	TopicsAnalyzed      int     `json:"topics_analyzed"`
	ContentSourcesUsed  int     `json:"content_sources_used"`
	PerformanceScore    float64 `json:"performance_score"`
	WeakAreasIdentified int     `json:"weak_areas_identified"`
	AIProvider          string  `json:"ai_provider"`
}

type NotesResponse struct {
	Notes           StudyNotesResponse `json:"notes"`
	GenerationStats GenerationStats    `json:"generation_stats"`
	Recommendations []string           `json:"recommendations"`
}

// WeakAreaFrequency counts how often a topic shows up as a weak area across
// a user's study-notes artifacts.
type WeakAreaFrequency struct {
	Topic     string `json:"topic"`
	Frequency int    `json:"frequency"`
}

type PerformanceAnalyticsResponse struct {
	TotalNotes           int                 `json:"total_notes"`
	AverageScore         float64             `json:"average_score"`
	ImprovementTrend     string              `json:"improvement_trend"`
	CommonWeakAreas      []WeakAreaFrequency `json:"common_weak_areas"`
	StudyRecommendations []string            `json:"study_recommendations"`
	LastStudySession     *time.Time          `json:"last_study_session,omitempty"`
}
