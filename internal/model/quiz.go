package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

// Question is immutable once created.
type Question struct {
	ID            string         `gorm:"primarykey" json:"id"`
	QuizID        string         `json:"quiz_id" gorm:"not null;index"`
	Text          string         `json:"question_text" gorm:"type:text;not null"`
	Type          string         `json:"question_type" gorm:"not null"` // multiple_choice, true_false, short_answer
	Options       []string       `json:"options,omitempty" gorm:"serializer:json"`
	CorrectAnswer string         `json:"correct_answer" gorm:"type:text;not null"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`
	Difficulty    int            `json:"difficulty" gorm:"default:1"` // 1-5 scale
	SourceExcerpt string         `json:"source_excerpt,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type Quiz struct {
	ID             string         `gorm:"primarykey" json:"id"`
	DocumentID     string         `json:"document_id" gorm:"not null;index"`
	UserID         string         `json:"user_id" gorm:"not null;index"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description,omitempty"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TotalQuestions int            `json:"total_questions"`
	EstimatedTime  int            `json:"estimated_time"` // minutes
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
