package service

import (
	"context"
	"encoding/json"
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

const (
	defaultQuizQuestions = 5
	maxQuizQuestions     = 20
	minutesPerQuestion   = 2
	promptContentLimit   = 8000
)

// QuizService generates quizzes from document content and grades submitted
// attempts.
type QuizService struct {
	quizRepo     repository.QuizRepository
	attemptRepo  repository.AttemptRepository
	documentRepo repository.DocumentRepository
	generator    TextGenerator
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	documentRepo repository.DocumentRepository,
	generator TextGenerator,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
		documentRepo: documentRepo,
		generator:    generator,
	}
}

// generatedQuestion is the JSON shape the model is asked to produce.
type generatedQuestion struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    int      `json:"difficulty"`
}

// GenerateQuiz builds a quiz from a document's content chunks. Generation
// failures fall back to deterministic comprehension questions so the caller
// always receives a usable quiz.
func (s *QuizService) GenerateQuiz(ctx context.Context, req dto.GenerateQuizRequest, userID string) (*dto.QuizResponse, error) {
	doc, err := s.documentRepo.FindByID(req.DocumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", req.DocumentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("document %s: %w", req.DocumentID, ErrOwnership)
	}

	numQuestions := req.NumQuestions
	if numQuestions <= 0 {
		numQuestions = defaultQuizQuestions
	}
	if numQuestions > maxQuizQuestions {
		numQuestions = maxQuizQuestions
	}

	content := truncate(strings.Join(doc.ContentChunks, "\n\n"), promptContentLimit)
	questions := s.generateQuestions(ctx, content, numQuestions)
	if len(questions) == 0 {
		questions = fallbackQuestions(doc.ContentChunks, numQuestions)
	}

	quiz := &model.Quiz{
		ID:             uuid.NewString(),
		DocumentID:     doc.ID,
		UserID:         userID,
		Title:          fmt.Sprintf("Quiz: %s", doc.Title),
		Description:    fmt.Sprintf("Auto-generated quiz with %d questions based on your document.", len(questions)),
		TotalQuestions: len(questions),
		EstimatedTime:  len(questions) * minutesPerQuestion,
	}
	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].QuizID = quiz.ID
	}
	quiz.Questions = questions

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}
	log.Info().Str("quizId", quiz.ID).Str("documentId", doc.ID).Int("questions", len(questions)).Msg("Quiz generated")

	return mapQuiz(quiz)
}

func (s *QuizService) generateQuestions(ctx context.Context, content string, numQuestions int) []model.Question {
	raw, err := s.generator.GenerateText(ctx, buildQuizPrompt(content, numQuestions))
	if err != nil {
		log.Warn().Err(err).Msg("Quiz generation failed, using fallback questions")
		return nil
	}

	parsed, err := parseGeneratedQuestions(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Could not parse generated quiz questions, using fallback questions")
		return nil
	}
	if len(parsed) > numQuestions {
		parsed = parsed[:numQuestions]
	}
	return parsed
}

func buildQuizPrompt(content string, numQuestions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following document content, generate %d quiz questions.\n\n", numQuestions)
	b.WriteString("DOCUMENT CONTENT:\n")
	b.WriteString(content)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("1. Mix question types: multiple_choice, true_false and short_answer\n")
	b.WriteString("2. Cover the most important concepts in the document\n")
	b.WriteString("3. Assign each question a difficulty from 1 (easy) to 5 (hard)\n")
	b.WriteString("4. For multiple_choice include exactly 4 options and make correct_answer one of them\n")
	b.WriteString("5. For true_false the correct_answer must be \"True\" or \"False\"\n")
	b.WriteString("6. Include a short explanation for every answer\n\n")
	b.WriteString("Respond with ONLY a JSON array, no markdown, in this exact format:\n")
	b.WriteString(`[{"question": "...", "type": "multiple_choice", "options": ["A", "B", "C", "D"], "correct_answer": "A", "explanation": "...", "difficulty": 2}]`)
	b.WriteString("\n")
	return b.String()
}

// parseGeneratedQuestions extracts the JSON array from a model response that
// may be wrapped in markdown fences or surrounding prose, then validates and
// normalizes each question.
func parseGeneratedQuestions(raw string) ([]model.Question, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in model response")
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &generated); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}

	var questions []model.Question
	for _, g := range generated {
		q, ok := normalizeQuestion(g)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model response contained no valid questions")
	}
	return questions, nil
}

func normalizeQuestion(g generatedQuestion) (model.Question, bool) {
	text := strings.TrimSpace(g.Question)
	answer := strings.TrimSpace(g.CorrectAnswer)
	if text == "" || answer == "" {
		return model.Question{}, false
	}

	qType := g.Type
	switch qType {
	case model.QuestionTypeMultipleChoice:
		if len(g.Options) < 2 {
			qType = model.QuestionTypeShortAnswer
			g.Options = nil
		}
	case model.QuestionTypeTrueFalse:
		g.Options = []string{"True", "False"}
	default:
		qType = model.QuestionTypeShortAnswer
		g.Options = nil
	}

	difficulty := g.Difficulty
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}

	return model.Question{
		Text:          text,
		Type:          qType,
		Options:       g.Options,
		CorrectAnswer: answer,
		Explanation:   strings.TrimSpace(g.Explanation),
		Difficulty:    difficulty,
	}, true
}

// fallbackQuestions builds simple comprehension questions straight from the
// document sentences when generation is unavailable.
func fallbackQuestions(chunks []string, numQuestions int) []model.Question {
	var questions []model.Question
	for _, chunk := range chunks {
		for _, sentence := range strings.Split(chunk, ". ") {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) <= 20 {
				continue
			}
			questions = append(questions, model.Question{
				Text:          fmt.Sprintf("What is the main concept discussed in: '%s...'?", truncate(sentence, 60)),
				Type:          model.QuestionTypeShortAnswer,
				CorrectAnswer: sentence,
				Explanation:   "Refer to the relevant section of the document.",
				Difficulty:    2,
			})
			if len(questions) >= numQuestions {
				return questions
			}
		}
	}
	if len(questions) == 0 {
		questions = append(questions, model.Question{
			Text:          "Summarize the main ideas of this document.",
			Type:          model.QuestionTypeShortAnswer,
			CorrectAnswer: "The main ideas presented in the document.",
			Explanation:   "Open comprehension question.",
			Difficulty:    2,
		})
	}
	return questions
}

// SubmitAttempt grades the submitted answers against the quiz's questions,
// persists the attempt and returns the per-question results.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, userID string, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	// Quiz ownership implies document ownership: GenerateQuiz only creates
	// quizzes for the document's owner.
	if quiz.UserID != userID {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrOwnership)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrQuizEmpty)
	}

	results := gradeAnswers(quiz.Questions, req.Answers)
	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}
	score := float64(correct) / float64(len(quiz.Questions)) * 100

	now := time.Now()
	attempt := &model.QuizAttempt{
		ID:          uuid.NewString(),
		QuizID:      quiz.ID,
		UserID:      userID,
		Answers:     req.Answers,
		Score:       &score,
		CompletedAt: &now,
		TimeTaken:   req.TimeTaken,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("failed to save quiz attempt: %w", err)
	}
	log.Info().Str("attemptId", attempt.ID).Str("quizId", quiz.ID).Float64("score", score).Msg("Quiz attempt submitted")

	return &dto.AttemptResponse{
		ID:             attempt.ID,
		QuizID:         quiz.ID,
		UserID:         userID,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		TimeTaken:      req.TimeTaken,
		CompletedAt:    &now,
		Results:        results,
	}, nil
}

func gradeAnswers(questions []model.Question, answers map[string]string) []dto.QuestionResult {
	results := make([]dto.QuestionResult, 0, len(questions))
	for _, q := range questions {
		userAnswer := answers[q.ID] // unanswered questions grade as incorrect
		results = append(results, dto.QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     IsAnswerCorrect(q, userAnswer),
			Explanation:   q.Explanation,
		})
	}
	return results
}

func (s *QuizService) GetQuiz(quizID, userID string) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %s: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz.UserID != userID {
		return nil, fmt.Errorf("quiz %s: %w", quizID, ErrOwnership)
	}
	return mapQuiz(quiz)
}

func (s *QuizService) ListQuizzes(userID string) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	resp := make([]dto.QuizResponse, 0, len(quizzes))
	if err := copier.Copy(&resp, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to map quizzes: %w", err)
	}
	return resp, nil
}

func (s *QuizService) ListAttempts(quizID, userID string) ([]dto.AttemptResponse, error) {
	attempts, err := s.attemptRepo.FindByQuizID(quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}

	resp := make([]dto.AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		item := dto.AttemptResponse{
			ID:          a.ID,
			QuizID:      a.QuizID,
			UserID:      a.UserID,
			TimeTaken:   a.TimeTaken,
			CompletedAt: a.CompletedAt,
		}
		if a.Score != nil {
			item.Score = *a.Score
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// mapQuiz maps a quiz to its response shape. Correct answers and
// explanations stay server side.
func mapQuiz(quiz *model.Quiz) (*dto.QuizResponse, error) {
	var resp dto.QuizResponse
	if err := copier.Copy(&resp, quiz); err != nil {
		return nil, fmt.Errorf("failed to map quiz: %w", err)
	}
	return &resp, nil
}
