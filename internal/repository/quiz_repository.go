package repository

import (
	"github.com/hnam209/studypilot/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByIDWithQuestions(id string) (*model.Quiz, error)
	FindByUserID(userID string) ([]model.Quiz, error)
	FindByDocumentID(documentID string) ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	// GORM creates the associated questions in the same transaction.
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByIDWithQuestions(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Preload("Questions").First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByUserID(userID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) FindByDocumentID(documentID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	if err := r.db.Where("document_id = ?", documentID).Order("created_at desc").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
