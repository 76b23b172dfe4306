package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// PerformanceSummary is the slice of the performance analysis that is
// embedded in the persisted notes artifact.
type PerformanceSummary struct {
	Score          float64  `json:"score"`
	Level          string   `json:"level"`
	WeakTopics     []string `json:"weak_topics"`
	TotalQuestions int      `json:"total_questions"`
	CorrectAnswers int      `json:"correct_answers"`
}

// StudyNotes is the persisted artifact of one notes-generation pipeline run.
// Regeneration produces a new artifact with a fresh id from the same attempt.
type StudyNotes struct {
	ID                 string             `gorm:"primarykey" json:"id"`
	DocumentID         string             `json:"document_id" gorm:"not null;index"`
	QuizAttemptID      string             `json:"quiz_attempt_id" gorm:"not null;index"`
	UserID             string             `json:"user_id" gorm:"not null;index"`
	DocumentTitle      string             `json:"document_title"`
	GeneratedAt        time.Time          `json:"generated_at"`
	PerformanceSummary PerformanceSummary `json:"performance_summary" gorm:"serializer:json"`
	Body               string             `json:"study_notes" gorm:"type:text"`
	TopicsCovered      []string           `json:"topics_covered" gorm:"serializer:json"`
	ContentSources     int                `json:"relevant_content_sources"`
	StudyPriority      string             `json:"study_priority"` // low, medium, high, urgent
	EstimatedStudyTime string             `json:"estimated_study_time"`
	NextReviewDate     *string            `json:"next_review_date,omitempty"` // ISO date
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`
}
