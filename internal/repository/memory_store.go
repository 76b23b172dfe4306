package repository

import (
	"sync"
	"time"

	"github.com/hnam209/studypilot/internal/model"
	"gorm.io/gorm"
)

// MemoryStore keeps every entity in process memory. It backs the "memory"
// storage backend and the repository round-trip tests, and implements the
// same interfaces as the gorm repositories so services cannot tell them
// apart. Missing keys surface as gorm.ErrRecordNotFound, matching the
// durable backend.
type MemoryStore struct {
	mu        sync.RWMutex
	documents []model.Document
	quizzes   []model.Quiz
	attempts  []model.QuizAttempt
	notes     []model.StudyNotes
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Documents() DocumentRepository { return (*memoryDocuments)(s) }
func (s *MemoryStore) Quizzes() QuizRepository       { return (*memoryQuizzes)(s) }
func (s *MemoryStore) Attempts() AttemptRepository   { return (*memoryAttempts)(s) }
func (s *MemoryStore) Notes() NotesRepository        { return (*memoryNotes)(s) }

type memoryDocuments MemoryStore

func (s *memoryDocuments) Create(doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, *doc)
	return nil
}

func (s *memoryDocuments) FindByID(id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			doc := s.documents[i]
			return &doc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryDocuments) FindByUserID(userID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for i := len(s.documents) - 1; i >= 0; i-- {
		if s.documents[i].UserID == userID {
			out = append(out, s.documents[i])
		}
	}
	return out, nil
}

type memoryQuizzes MemoryStore

func (s *memoryQuizzes) Create(quiz *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = append(s.quizzes, *quiz)
	return nil
}

func (s *memoryQuizzes) FindByIDWithQuestions(id string) (*model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.quizzes {
		if s.quizzes[i].ID == id {
			quiz := s.quizzes[i]
			quiz.Questions = append([]model.Question(nil), s.quizzes[i].Questions...)
			return &quiz, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryQuizzes) FindByUserID(userID string) ([]model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Quiz
	for i := len(s.quizzes) - 1; i >= 0; i-- {
		if s.quizzes[i].UserID == userID {
			out = append(out, s.quizzes[i])
		}
	}
	return out, nil
}

func (s *memoryQuizzes) FindByDocumentID(documentID string) ([]model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Quiz
	for i := len(s.quizzes) - 1; i >= 0; i-- {
		if s.quizzes[i].DocumentID == documentID {
			out = append(out, s.quizzes[i])
		}
	}
	return out, nil
}

type memoryAttempts MemoryStore

func (s *memoryAttempts) Create(attempt *model.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, *attempt)
	return nil
}

func (s *memoryAttempts) FindByID(id string) (*model.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.attempts {
		if s.attempts[i].ID == id {
			attempt := s.attempts[i]
			return &attempt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryAttempts) FindByQuizID(quizID, userID string) ([]model.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.QuizAttempt
	for i := len(s.attempts) - 1; i >= 0; i-- {
		if s.attempts[i].QuizID == quizID && s.attempts[i].UserID == userID {
			out = append(out, s.attempts[i])
		}
	}
	return out, nil
}

type memoryNotes MemoryStore

func (s *memoryNotes) Create(notes *model.StudyNotes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The durable backend autofills CreatedAt on insert.
	if notes.CreatedAt.IsZero() {
		notes.CreatedAt = time.Now()
	}
	s.notes = append(s.notes, *notes)
	return nil
}

func (s *memoryNotes) FindByID(id string) (*model.StudyNotes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			notes := s.notes[i]
			return &notes, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryNotes) FindByUserID(userID string) ([]model.StudyNotes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.StudyNotes
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].UserID == userID {
			out = append(out, s.notes[i])
		}
	}
	return out, nil
}

func (s *memoryNotes) FindByDocumentID(documentID, userID string) ([]model.StudyNotes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.StudyNotes
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].DocumentID == documentID && s.notes[i].UserID == userID {
			out = append(out, s.notes[i])
		}
	}
	return out, nil
}
