package service

import (
	"context"
	"testing"

	"github.com/hnam209/studypilot/internal/dto"
	"github.com/hnam209/studypilot/internal/model"
	"github.com/hnam209/studypilot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizFixture(t *testing.T, generator TextGenerator) (*QuizService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewQuizService(store.Quizzes(), store.Attempts(), store.Documents(), generator)

	require.NoError(t, store.Documents().Create(&model.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Title:  "Go Concurrency",
		ContentChunks: []string{
			"Goroutines are lightweight threads managed by the Go runtime. Channels provide typed communication between goroutines.",
			"The select statement waits on multiple channel operations simultaneously.",
		},
		ChunkCount: 2,
	}))
	return svc, store
}

const validQuestionJSON = `[
  {"question": "What manages goroutines?", "type": "multiple_choice", "options": ["The OS", "The Go runtime", "The compiler", "The linker"], "correct_answer": "The Go runtime", "explanation": "The runtime scheduler multiplexes goroutines.", "difficulty": 2},
  {"question": "Channels are typed.", "type": "true_false", "correct_answer": "True", "explanation": "Each channel carries one element type.", "difficulty": 1}
]`

func TestGenerateQuiz_FromModelResponse(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, "Goroutines are lightweight threads")
		return "```json\n" + validQuestionJSON + "\n```", nil
	})
	svc, store := newQuizFixture(t, generator)

	resp, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1", NumQuestions: 2}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Quiz: Go Concurrency", resp.Title)
	assert.Equal(t, 2, resp.TotalQuestions)
	assert.Equal(t, 4, resp.EstimatedTime)
	require.Len(t, resp.Questions, 2)
	assert.NotEmpty(t, resp.Questions[0].ID)

	// Persisted with answers intact, even though the response omits them.
	stored, err := store.Quizzes().FindByIDWithQuestions(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Go runtime", stored.Questions[0].CorrectAnswer)
}

func TestGenerateQuiz_FallsBackWhenGeneratorFails(t *testing.T) {
	svc, _ := newQuizFixture(t, failingGenerator)

	resp, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1", NumQuestions: 3}, "user-1")
	require.NoError(t, err)

	require.NotEmpty(t, resp.Questions)
	for _, q := range resp.Questions {
		assert.Equal(t, model.QuestionTypeShortAnswer, q.Type)
		assert.Contains(t, q.Text, "What is the main concept discussed in:")
	}
}

func TestGenerateQuiz_DocumentChecks(t *testing.T) {
	svc, _ := newQuizFixture(t, failingGenerator)

	_, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "missing"}, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1"}, "someone-else")
	assert.ErrorIs(t, err, ErrOwnership)
}

func TestParseGeneratedQuestions_StripsMarkdownAndProse(t *testing.T) {
	raw := "Here are your questions:\n```json\n" + validQuestionJSON + "\n```\nEnjoy!"

	questions, err := parseGeneratedQuestions(raw)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, model.QuestionTypeMultipleChoice, questions[0].Type)
	assert.Equal(t, []string{"True", "False"}, questions[1].Options)
}

func TestParseGeneratedQuestions_NormalizesInvalidEntries(t *testing.T) {
	raw := `[
	  {"question": "Valid?", "type": "essay", "correct_answer": "Yes", "difficulty": 9},
	  {"question": "", "type": "short_answer", "correct_answer": "skipped"},
	  {"question": "Two options only", "type": "multiple_choice", "options": ["A"], "correct_answer": "A", "difficulty": 0}
	]`

	questions, err := parseGeneratedQuestions(raw)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	// Unknown type becomes short_answer, difficulty clamps into 1..5.
	assert.Equal(t, model.QuestionTypeShortAnswer, questions[0].Type)
	assert.Equal(t, 5, questions[0].Difficulty)
	// Under-optioned multiple choice degrades to short_answer.
	assert.Equal(t, model.QuestionTypeShortAnswer, questions[1].Type)
	assert.Nil(t, questions[1].Options)
	assert.Equal(t, 1, questions[1].Difficulty)
}

func TestParseGeneratedQuestions_Errors(t *testing.T) {
	_, err := parseGeneratedQuestions("no array here")
	assert.Error(t, err)

	_, err = parseGeneratedQuestions("[{broken json]")
	assert.Error(t, err)

	_, err = parseGeneratedQuestions(`[{"question": "", "correct_answer": ""}]`)
	assert.Error(t, err)
}

func TestFallbackQuestions_FromLongSentences(t *testing.T) {
	chunks := []string{
		"Short one. Goroutines are lightweight threads managed by the runtime. Tiny. Channels provide typed communication between running goroutines.",
	}

	questions := fallbackQuestions(chunks, 2)

	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.Equal(t, model.QuestionTypeShortAnswer, q.Type)
		assert.Greater(t, len(q.CorrectAnswer), 20)
	}
}

func TestFallbackQuestions_GenericWhenNoUsableSentences(t *testing.T) {
	questions := fallbackQuestions([]string{"Too short. Tiny."}, 3)

	require.Len(t, questions, 1)
	assert.Equal(t, "Summarize the main ideas of this document.", questions[0].Text)
}

func TestSubmitAttempt_GradesAndPersists(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return validQuestionJSON, nil
	})
	svc, store := newQuizFixture(t, generator)

	quiz, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1", NumQuestions: 2}, "user-1")
	require.NoError(t, err)

	answers := map[string]string{
		quiz.Questions[0].ID: "the go runtime", // case-insensitive match
		// second question left unanswered
	}
	resp, err := svc.SubmitAttempt(context.Background(), quiz.ID, "user-1", dto.SubmitAttemptRequest{Answers: answers})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CorrectAnswers)
	assert.Equal(t, 2, resp.TotalQuestions)
	assert.InDelta(t, 50.0, resp.Score, 0.001)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].IsCorrect)
	assert.False(t, resp.Results[1].IsCorrect)
	require.NotNil(t, resp.CompletedAt)

	stored, err := store.Attempts().FindByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.InDelta(t, 50.0, *stored.Score, 0.001)
	assert.Equal(t, answers, stored.Answers)
}

func TestSubmitAttempt_OwnershipEnforced(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return validQuestionJSON, nil
	})
	svc, store := newQuizFixture(t, generator)

	quiz, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1"}, "user-1")
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, "intruder", dto.SubmitAttemptRequest{Answers: map[string]string{}})
	assert.ErrorIs(t, err, ErrOwnership)

	// Nothing was persisted for the rejected submission.
	attempts, err := store.Attempts().FindByQuizID(quiz.ID, "intruder")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSubmitAttempt_QuizChecks(t *testing.T) {
	svc, store := newQuizFixture(t, failingGenerator)

	_, err := svc.SubmitAttempt(context.Background(), "missing", "user-1", dto.SubmitAttemptRequest{Answers: map[string]string{}})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Quizzes().Create(&model.Quiz{ID: "quiz-empty", DocumentID: "doc-1", UserID: "user-1"}))
	_, err = svc.SubmitAttempt(context.Background(), "quiz-empty", "user-1", dto.SubmitAttemptRequest{Answers: map[string]string{}})
	assert.ErrorIs(t, err, ErrQuizEmpty)
}

func TestGetQuiz_OwnershipEnforced(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return validQuestionJSON, nil
	})
	svc, _ := newQuizFixture(t, generator)

	quiz, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1"}, "user-1")
	require.NoError(t, err)

	_, err = svc.GetQuiz(quiz.ID, "someone-else")
	assert.ErrorIs(t, err, ErrOwnership)

	got, err := svc.GetQuiz(quiz.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)
}

func TestListAttempts_ScopedToUser(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return validQuestionJSON, nil
	})
	svc, _ := newQuizFixture(t, generator)

	quiz, err := svc.GenerateQuiz(context.Background(), dto.GenerateQuizRequest{DocumentID: "doc-1"}, "user-1")
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, "user-1", dto.SubmitAttemptRequest{Answers: map[string]string{}})
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, "user-1", dto.SubmitAttemptRequest{Answers: map[string]string{}})
	require.NoError(t, err)

	mine, err := svc.ListAttempts(quiz.ID, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.ListAttempts(quiz.ID, "user-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
