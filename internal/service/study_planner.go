package service

import (
	"time"

	"github.com/hnam209/studypilot/internal/model"
)

// StudyPlanner derives priority, estimated study time and the next review
// date from a performance analysis. All three are pure, total functions.
type StudyPlanner interface {
	PriorityFor(level string) string
	EstimatedStudyTime(scorePercentage float64, weakAreaCount int) string
	NextReviewDate(level string, now time.Time) string
}

type studyPlanner struct{}

func NewStudyPlanner() StudyPlanner {
	return &studyPlanner{}
}

func (p *studyPlanner) PriorityFor(level string) string {
	switch level {
	case LevelExcellent, LevelGood:
		return model.PriorityLow
	case LevelSatisfactory:
		return model.PriorityMedium
	case LevelNeedsImprovement:
		return model.PriorityHigh
	case LevelRequiresStudy:
		return model.PriorityUrgent
	default:
		return model.PriorityMedium
	}
}

func (p *studyPlanner) EstimatedStudyTime(scorePercentage float64, weakAreaCount int) string {
	switch {
	case scorePercentage >= 90:
		return "15-30 minutes review"
	case scorePercentage >= 80:
		return "30-45 minutes focused study"
	case scorePercentage >= 70:
		return "1-2 hours comprehensive review"
	case scorePercentage >= 60:
		return "2-3 hours intensive study"
	default:
		return "3+ hours deep learning required"
	}
}

// Review offsets shrink as performance worsens: weaker knowledge needs an
// earlier refresh.
var reviewOffsetDays = map[string]int{
	LevelExcellent:        7,
	LevelGood:             5,
	LevelSatisfactory:     3,
	LevelNeedsImprovement: 2,
	LevelRequiresStudy:    1,
}

func (p *studyPlanner) NextReviewDate(level string, now time.Time) string {
	days, ok := reviewOffsetDays[level]
	if !ok {
		days = 3
	}
	return now.AddDate(0, 0, days).Format("2006-01-02")
}
