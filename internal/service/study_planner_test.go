package service

import (
	"testing"
	"time"

	"github.com/hnam209/studypilot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPriorityFor_AllLevels(t *testing.T) {
	planner := NewStudyPlanner()

	assert.Equal(t, model.PriorityLow, planner.PriorityFor(LevelExcellent))
	assert.Equal(t, model.PriorityLow, planner.PriorityFor(LevelGood))
	assert.Equal(t, model.PriorityMedium, planner.PriorityFor(LevelSatisfactory))
	assert.Equal(t, model.PriorityHigh, planner.PriorityFor(LevelNeedsImprovement))
	assert.Equal(t, model.PriorityUrgent, planner.PriorityFor(LevelRequiresStudy))
	assert.Equal(t, model.PriorityMedium, planner.PriorityFor("unknown"))
}

func TestEstimatedStudyTime_Bands(t *testing.T) {
	planner := NewStudyPlanner()

	assert.Equal(t, "15-30 minutes review", planner.EstimatedStudyTime(95, 0))
	assert.Equal(t, "30-45 minutes focused study", planner.EstimatedStudyTime(85, 1))
	assert.Equal(t, "1-2 hours comprehensive review", planner.EstimatedStudyTime(75, 2))
	assert.Equal(t, "2-3 hours intensive study", planner.EstimatedStudyTime(65, 3))
	assert.Equal(t, "3+ hours deep learning required", planner.EstimatedStudyTime(40, 5))
}

func TestNextReviewDate_OffsetsShrinkAsPerformanceDrops(t *testing.T) {
	planner := NewStudyPlanner()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-08", planner.NextReviewDate(LevelExcellent, now))
	assert.Equal(t, "2025-06-06", planner.NextReviewDate(LevelGood, now))
	assert.Equal(t, "2025-06-04", planner.NextReviewDate(LevelSatisfactory, now))
	assert.Equal(t, "2025-06-03", planner.NextReviewDate(LevelNeedsImprovement, now))
	assert.Equal(t, "2025-06-02", planner.NextReviewDate(LevelRequiresStudy, now))

	// Unknown levels default to the middle offset.
	assert.Equal(t, "2025-06-04", planner.NextReviewDate("unknown", now))
}
