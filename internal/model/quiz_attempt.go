package model

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt records a user's submitted answers for a quiz. Created on
// submission; after scoring only the score and completion fields are set,
// the answers map is never mutated.
type QuizAttempt struct {
	ID          string            `gorm:"primarykey" json:"id"`
	QuizID      string            `json:"quiz_id" gorm:"not null;index"`
	UserID      string            `json:"user_id" gorm:"not null;index"`
	Answers     map[string]string `json:"answers" gorm:"serializer:json"` // question id -> submitted answer
	Score       *float64          `json:"score,omitempty"`                // percentage 0-100
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	TimeTaken   *int              `json:"time_taken,omitempty"` // seconds
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}
