package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hnam209/studypilot/internal/dto"
	"github.com/hnam209/studypilot/internal/model"
	"github.com/hnam209/studypilot/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const notesAIProvider = "gemini"

// NotesService runs the full notes-generation pipeline for a quiz attempt
// and serves the persisted artifacts.
type NotesService struct {
	notesRepo    repository.NotesRepository
	attemptRepo  repository.AttemptRepository
	quizRepo     repository.QuizRepository
	documentRepo repository.DocumentRepository
	analyzer     PerformanceAnalyzer
	aggregator   ContentAggregator
	synthesizer  NotesSynthesizer
	planner      StudyPlanner
}

func NewNotesService(
	notesRepo repository.NotesRepository,
	attemptRepo repository.AttemptRepository,
	quizRepo repository.QuizRepository,
	documentRepo repository.DocumentRepository,
	analyzer PerformanceAnalyzer,
	aggregator ContentAggregator,
	synthesizer NotesSynthesizer,
	planner StudyPlanner,
) *NotesService {
	return &NotesService{
		notesRepo:    notesRepo,
		attemptRepo:  attemptRepo,
		quizRepo:     quizRepo,
		documentRepo: documentRepo,
		analyzer:     analyzer,
		aggregator:   aggregator,
		synthesizer:  synthesizer,
		planner:      planner,
	}
}

// CreateNotes generates a new study-notes artifact from a completed quiz
// attempt. Retrieval and synthesis degrade internally; only load and persist
// failures surface as errors.
func (s *NotesService) CreateNotes(ctx context.Context, attemptID, userID string) (*dto.NotesResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz attempt %s: %w", attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load quiz attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("quiz attempt %s: %w", attemptID, ErrOwnership)
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %s: %w", attempt.QuizID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s: %w", quiz.ID, ErrQuizEmpty)
	}

	doc, err := s.documentRepo.FindByID(quiz.DocumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", quiz.DocumentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	analysis := s.analyzer.Analyze(attempt, quiz.Questions)
	log.Info().
		Str("attemptId", attempt.ID).
		Float64("score", analysis.ScorePercentage).
		Str("level", analysis.PerformanceLevel).
		Int("weakTopics", len(analysis.WeakTopics)).
		Msg("Performance analysis complete")

	content := s.aggregator.Aggregate(ctx, analysis.WeakTopics, doc.ID, defaultMaxContentItems)
	synthesis := s.synthesizer.Synthesize(ctx, analysis, content, doc.Title)

	now := time.Now()
	reviewDate := s.planner.NextReviewDate(analysis.PerformanceLevel, now)
	notes := &model.StudyNotes{
		ID:            uuid.NewString(),
		DocumentID:    doc.ID,
		QuizAttemptID: attempt.ID,
		UserID:        userID,
		DocumentTitle: doc.Title,
		GeneratedAt:   now,
		PerformanceSummary: model.PerformanceSummary{
			Score:          analysis.ScorePercentage,
			Level:          analysis.PerformanceLevel,
			WeakTopics:     analysis.WeakTopics,
			TotalQuestions: analysis.TotalQuestions,
			CorrectAnswers: analysis.CorrectAnswers,
		},
		Body:               synthesis.Body,
		TopicsCovered:      synthesis.TopicsCovered,
		ContentSources:     len(content),
		StudyPriority:      s.planner.PriorityFor(analysis.PerformanceLevel),
		EstimatedStudyTime: s.planner.EstimatedStudyTime(analysis.ScorePercentage, len(analysis.WeakAreas)),
		NextReviewDate:     &reviewDate,
	}

	if err := s.notesRepo.Create(notes); err != nil {
		return nil, fmt.Errorf("failed to save study notes: %w", err)
	}
	log.Info().Str("notesId", notes.ID).Str("documentId", doc.ID).Msg("Study notes generated")

	return s.toNotesResponse(notes, analysis), nil
}

// RegenerateNotes re-runs the pipeline from the attempt an existing artifact
// was built from. The result is a fresh artifact with its own id; the old
// one is kept.
func (s *NotesService) RegenerateNotes(ctx context.Context, notesID, userID string) (*dto.NotesResponse, error) {
	existing, err := s.notesRepo.FindByID(notesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study notes %s: %w", notesID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load study notes: %w", err)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("study notes %s: %w", notesID, ErrOwnership)
	}
	return s.CreateNotes(ctx, existing.QuizAttemptID, userID)
}

func (s *NotesService) GetNotes(notesID, userID string) (*dto.StudyNotesResponse, error) {
	notes, err := s.notesRepo.FindByID(notesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study notes %s: %w", notesID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load study notes: %w", err)
	}
	if notes.UserID != userID {
		return nil, fmt.Errorf("study notes %s: %w", notesID, ErrOwnership)
	}

	var resp dto.StudyNotesResponse
	if err := copier.Copy(&resp, notes); err != nil {
		return nil, fmt.Errorf("failed to map study notes: %w", err)
	}
	return &resp, nil
}

func (s *NotesService) ListNotes(userID string) ([]dto.StudyNotesResponse, error) {
	notes, err := s.notesRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study notes: %w", err)
	}
	return mapNotesList(notes)
}

func (s *NotesService) ListNotesForDocument(documentID, userID string) ([]dto.StudyNotesResponse, error) {
	notes, err := s.notesRepo.FindByDocumentID(documentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study notes for document: %w", err)
	}
	return mapNotesList(notes)
}

func mapNotesList(notes []model.StudyNotes) ([]dto.StudyNotesResponse, error) {
	resp := make([]dto.StudyNotesResponse, 0, len(notes))
	if err := copier.Copy(&resp, &notes); err != nil {
		return nil, fmt.Errorf("failed to map study notes: %w", err)
	}
	return resp, nil
}

func (s *NotesService) toNotesResponse(notes *model.StudyNotes, analysis PerformanceAnalysis) *dto.NotesResponse {
	var notesDTO dto.StudyNotesResponse
	if err := copier.Copy(&notesDTO, notes); err != nil {
		log.Error().Err(err).Msg("Failed to map study notes to response")
	}

	return &dto.NotesResponse{
		Notes: notesDTO,
		GenerationStats: dto.GenerationStats{
			TopicsAnalyzed:      len(analysis.WeakTopics),
			ContentSourcesUsed:  notes.ContentSources,
			PerformanceScore:    analysis.ScorePercentage,
			WeakAreasIdentified: len(analysis.WeakAreas),
			AIProvider:          notesAIProvider,
		},
		Recommendations: buildRecommendations(analysis),
	}
}

// buildRecommendations turns the analysis into short actionable advice for
// the response envelope. Deterministic for a given analysis.
func buildRecommendations(analysis PerformanceAnalysis) []string {
	var recs []string

	switch analysis.PerformanceLevel {
	case LevelExcellent:
		recs = append(recs, "Excellent work! Review the notes briefly to reinforce your strong understanding.")
	case LevelGood:
		recs = append(recs, "Good performance. A focused review of the highlighted topics will close the remaining gaps.")
	case LevelSatisfactory:
		recs = append(recs, "Solid foundation. Work through each priority topic in the notes before your next attempt.")
	case LevelNeedsImprovement:
		recs = append(recs, "Set aside dedicated study time for the priority topics before retaking the quiz.")
	default:
		recs = append(recs, "Start with a thorough read of the study notes, then revisit the source document section by section.")
	}

	if len(analysis.WeakTopics) > 0 {
		recs = append(recs, fmt.Sprintf("Focus first on: %s", strings.Join(topN(analysis.WeakTopics, 3), ", ")))
	}
	if len(analysis.NeedsReview) > 0 {
		recs = append(recs, fmt.Sprintf("Review %d easier question(s) you missed; these are quick wins.", len(analysis.NeedsReview)))
	}
	recs = append(recs, "Retake the quiz after studying to measure your improvement.")
	return recs
}
