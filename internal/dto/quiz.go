package dto

import "time"

type GenerateQuizRequest struct {
	DocumentID   string `json:"document_id" binding:"required"`
	NumQuestions int    `json:"num_questions"`
}

type QuestionResponse struct {
	ID         string   `json:"id"`
	Text       string   `json:"question_text"`
	Type       string   `json:"question_type"`
	Options    []string `json:"options,omitempty"`
	Difficulty int      `json:"difficulty"`
}

type QuizResponse struct {
	ID             string             `json:"id"`
	DocumentID     string             `json:"document_id"`
	UserID         string             `json:"user_id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Questions      []QuestionResponse `json:"questions,omitempty"`
	TotalQuestions int                `json:"total_questions"`
	EstimatedTime  int                `json:"estimated_time"`
	CreatedAt      time.Time          `json:"created_at"`
}

type SubmitAttemptRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeTaken *int              `json:"time_taken,omitempty"`
}

// QuestionResult is the graded outcome of a single question in an attempt.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

type AttemptResponse struct {
	ID             string           `json:"id"`
	QuizID         string           `json:"quiz_id"`
	UserID         string           `json:"user_id"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	TimeTaken      *int             `json:"time_taken,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	Results        []QuestionResult `json:"results,omitempty"`
}
