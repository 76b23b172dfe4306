package repository

import (
	"testing"

	"github.com/hnam209/studypilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMemoryStore_MissingKeysMatchGormSemantics(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Documents().FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.Quizzes().FindByIDWithQuestions("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.Attempts().FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.Notes().FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemoryStore_ReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Documents().Create(&model.Document{ID: "doc-1", UserID: "u", Title: "Original"}))

	got, err := store.Documents().FindByID("doc-1")
	require.NoError(t, err)
	got.Title = "Mutated"

	again, err := store.Documents().FindByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestMemoryStore_ListsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Notes().Create(&model.StudyNotes{ID: "n1", UserID: "u", DocumentID: "d"}))
	require.NoError(t, store.Notes().Create(&model.StudyNotes{ID: "n2", UserID: "u", DocumentID: "d"}))

	notes, err := store.Notes().FindByUserID("u")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n2", notes[0].ID)
	assert.Equal(t, "n1", notes[1].ID)

	byDoc, err := store.Notes().FindByDocumentID("d", "u")
	require.NoError(t, err)
	assert.Len(t, byDoc, 2)
}

func TestMemoryStore_QuizQuestionsCopiedOnRead(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Quizzes().Create(&model.Quiz{
		ID:     "quiz-1",
		UserID: "u",
		Questions: []model.Question{
			{ID: "q1", Text: "Original question"},
		},
	}))

	got, err := store.Quizzes().FindByIDWithQuestions("quiz-1")
	require.NoError(t, err)
	got.Questions[0].Text = "Mutated"

	again, err := store.Quizzes().FindByIDWithQuestions("quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "Original question", again.Questions[0].Text)
}
