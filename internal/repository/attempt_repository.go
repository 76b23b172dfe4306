package repository

import (
	"github.com/hnam209/studypilot/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	FindByID(id string) (*model.QuizAttempt, error)
	FindByQuizID(quizID, userID string) ([]model.QuizAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByQuizID(quizID, userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at desc").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
