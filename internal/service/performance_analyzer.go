package service

import (
	"strings"

	"github.com/hnam209/studypilot/internal/model"
)

const (
	LevelExcellent        = "excellent"
	LevelGood             = "good"
	LevelSatisfactory     = "satisfactory"
	LevelNeedsImprovement = "needs_improvement"
	LevelRequiresStudy    = "requires_significant_study"
)

const maxWeakTopics = 10

// QuestionPerformance is the per-question record of a performance analysis.
type QuestionPerformance struct {
	QuestionID    string   `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	TopicKeywords []string `json:"topic_keywords"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Difficulty    int      `json:"difficulty"`
	Explanation   string   `json:"explanation"`
}

// PerformanceAnalysis partitions a quiz attempt's questions into weak
// (wrong, difficulty >= 3), needs-review (wrong, difficulty < 3) and strong
// (correct). The partitions are exhaustive and disjoint.
type PerformanceAnalysis struct {
	TotalQuestions   int                   `json:"total_questions"`
	CorrectAnswers   int                   `json:"correct_answers"`
	ScorePercentage  float64               `json:"score_percentage"`
	WeakAreas        []QuestionPerformance `json:"weak_areas"`
	NeedsReview      []QuestionPerformance `json:"needs_review"`
	StrongAreas      []QuestionPerformance `json:"strong_areas"`
	WeakTopics       []string              `json:"weak_topics"`
	PerformanceLevel string                `json:"performance_level"`
}

type PerformanceAnalyzer interface {
	Analyze(attempt *model.QuizAttempt, questions []model.Question) PerformanceAnalysis
}

type performanceAnalyzer struct{}

func NewPerformanceAnalyzer() PerformanceAnalyzer {
	return &performanceAnalyzer{}
}

func (a *performanceAnalyzer) Analyze(attempt *model.QuizAttempt, questions []model.Question) PerformanceAnalysis {
	analysis := PerformanceAnalysis{TotalQuestions: len(questions)}

	for _, q := range questions {
		var userAnswer string
		if attempt != nil && attempt.Answers != nil {
			userAnswer = attempt.Answers[q.ID] // missing answer stays "" and scores as incorrect
		}

		record := QuestionPerformance{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			TopicKeywords: ExtractTopics(q.Text),
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     IsAnswerCorrect(q, userAnswer),
			Difficulty:    q.Difficulty,
			Explanation:   q.Explanation,
		}

		switch {
		case record.IsCorrect:
			analysis.StrongAreas = append(analysis.StrongAreas, record)
		case q.Difficulty >= 3:
			analysis.WeakAreas = append(analysis.WeakAreas, record)
		default:
			analysis.NeedsReview = append(analysis.NeedsReview, record)
		}
	}

	analysis.CorrectAnswers = len(analysis.StrongAreas)
	if analysis.TotalQuestions > 0 {
		analysis.ScorePercentage = float64(analysis.CorrectAnswers) / float64(analysis.TotalQuestions) * 100
	}
	analysis.WeakTopics = rankWeakTopics(append(append([]QuestionPerformance{}, analysis.WeakAreas...), analysis.NeedsReview...))
	analysis.PerformanceLevel = DeterminePerformanceLevel(analysis.ScorePercentage)
	return analysis
}

// IsAnswerCorrect grades a submitted answer. Structured questions need an
// exact case-insensitive trimmed match; short answers are correct when the
// submitted words cover at least 50% of the canonical answer's word set.
// Also used by quiz submission scoring so both stay in agreement.
func IsAnswerCorrect(q model.Question, userAnswer string) bool {
	switch q.Type {
	case model.QuestionTypeMultipleChoice, model.QuestionTypeTrueFalse:
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(q.CorrectAnswer))
	default:
		correct := wordSet(q.CorrectAnswer)
		if len(correct) == 0 {
			return false
		}
		submitted := wordSet(userAnswer)
		overlap := 0
		for w := range correct {
			if _, ok := submitted[w]; ok {
				overlap++
			}
		}
		return float64(overlap) >= float64(len(correct))*0.5
	}
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// rankWeakTopics frequency-counts topic keywords across the weak and
// needs-review records, descending by count with ties broken by first-seen
// order, capped at 10.
func rankWeakTopics(records []QuestionPerformance) []string {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		for _, kw := range rec.TopicKeywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	ranked := make([]string, len(order))
	copy(ranked, order)
	// Stable insertion sort keeps first-seen order between equal counts.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > maxWeakTopics {
		ranked = ranked[:maxWeakTopics]
	}
	return ranked
}

// DeterminePerformanceLevel maps a score percentage to its categorical level.
func DeterminePerformanceLevel(scorePercentage float64) string {
	switch {
	case scorePercentage >= 90:
		return LevelExcellent
	case scorePercentage >= 80:
		return LevelGood
	case scorePercentage >= 70:
		return LevelSatisfactory
	case scorePercentage >= 60:
		return LevelNeedsImprovement
	default:
		return LevelRequiresStudy
	}
}
