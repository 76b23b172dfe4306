package repository

import (
	"github.com/hnam209/studypilot/internal/model"
	"gorm.io/gorm"
)

type NotesRepository interface {
	Create(notes *model.StudyNotes) error
	FindByID(id string) (*model.StudyNotes, error)
	FindByUserID(userID string) ([]model.StudyNotes, error)
	FindByDocumentID(documentID, userID string) ([]model.StudyNotes, error)
}

type notesRepository struct {
	db *gorm.DB
}

func NewNotesRepository(db *gorm.DB) NotesRepository {
	return &notesRepository{db: db}
}

func (r *notesRepository) Create(notes *model.StudyNotes) error {
	return r.db.Create(notes).Error
}

func (r *notesRepository) FindByID(id string) (*model.StudyNotes, error) {
	var notes model.StudyNotes
	if err := r.db.First(&notes, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notes, nil
}

func (r *notesRepository) FindByUserID(userID string) ([]model.StudyNotes, error) {
	var notes []model.StudyNotes
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *notesRepository) FindByDocumentID(documentID, userID string) ([]model.StudyNotes, error) {
	var notes []model.StudyNotes
	err := r.db.Where("document_id = ? AND user_id = ?", documentID, userID).
		Order("created_at desc").Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
