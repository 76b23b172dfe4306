package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func sampleAnalysis() PerformanceAnalysis {
	return PerformanceAnalysis{
		TotalQuestions:   5,
		CorrectAnswers:   2,
		ScorePercentage:  40,
		WeakTopics:       []string{"neural_networks", "backpropagation"},
		WeakAreas:        make([]QuestionPerformance, 3),
		PerformanceLevel: LevelRequiresStudy,
	}
}

func sampleContent() []RetrievedContentItem {
	return []RetrievedContentItem{
		{Topic: "neural_networks", Content: "Neural networks are layered models.", RelevanceScore: 0.9, ChunkIndex: 0},
		{Topic: "backpropagation", Content: "Backpropagation computes gradients.", RelevanceScore: 0.8, ChunkIndex: 1},
		{Topic: "neural_networks", Content: "Layers apply weighted sums.", RelevanceScore: 0.7, ChunkIndex: 2},
	}
}

func TestSynthesize_UsesGeneratedBody(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, "40.0%")
		assert.Contains(t, prompt, LevelRequiresStudy)
		assert.Contains(t, prompt, "Intro to ML")
		assert.Contains(t, prompt, "neural_networks")
		return "# Generated Notes", nil
	})
	synth := NewNotesSynthesizer(generator, NewStudyPlanner())

	result := synth.Synthesize(context.Background(), sampleAnalysis(), sampleContent(), "Intro to ML")

	assert.Equal(t, "# Generated Notes", result.Body)
	assert.Equal(t, []string{"neural_networks", "backpropagation"}, result.TopicsCovered)
}

func TestSynthesize_FallsBackWhenGeneratorFails(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	})
	synth := NewNotesSynthesizer(generator, NewStudyPlanner())

	result := synth.Synthesize(context.Background(), sampleAnalysis(), sampleContent(), "Intro to ML")

	require.NotEmpty(t, result.Body)
	assert.Contains(t, result.Body, "# 📚 Comprehensive Study Notes: Intro to ML")
	assert.Contains(t, result.Body, "## 🎯 Executive Summary")
	assert.Contains(t, result.Body, "## 📊 Performance Analysis")
	assert.Contains(t, result.Body, "## 🔍 Priority Topics for Detailed Review")
	assert.Contains(t, result.Body, "**Score:** 40.0%")
	assert.Contains(t, result.Body, "### 1. Neural Networks")
	assert.Contains(t, result.Body, "### 2. Backpropagation")
	assert.Contains(t, result.Body, "Neural networks are layered models.")
	assert.Contains(t, result.Body, "**Estimated Study Time:** 3+ hours deep learning required")
	assert.Equal(t, []string{"neural_networks", "backpropagation"}, result.TopicsCovered)
}

func TestSynthesize_FallsBackOnEmptyGeneratorOutput(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return "   \n", nil
	})
	synth := NewNotesSynthesizer(generator, NewStudyPlanner())

	result := synth.Synthesize(context.Background(), sampleAnalysis(), sampleContent(), "Intro to ML")

	assert.Contains(t, result.Body, "# 📚 Comprehensive Study Notes")
}

func TestSynthesize_FallbackWorksWithNoContent(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	})
	synth := NewNotesSynthesizer(generator, NewStudyPlanner())

	result := synth.Synthesize(context.Background(), sampleAnalysis(), nil, "Intro to ML")

	assert.Contains(t, result.Body, "## 📊 Performance Analysis")
	assert.Empty(t, result.TopicsCovered)
}

func TestSynthesize_GeneralContentRoutedButNotCovered(t *testing.T) {
	generator := generatorFunc(func(_ context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, strings.ToUpper(GeneralContentTopic))
		return "generated", nil
	})
	synth := NewNotesSynthesizer(generator, NewStudyPlanner())

	content := []RetrievedContentItem{
		{Topic: GeneralContentTopic, Content: "Some generic passage.", RelevanceScore: 0.5, ChunkIndex: 0},
		{Topic: "recursion", Content: "Recursion is self reference.", RelevanceScore: 0.8, ChunkIndex: 1},
	}
	result := synth.Synthesize(context.Background(), sampleAnalysis(), content, "Algorithms")

	assert.Equal(t, []string{"recursion"}, result.TopicsCovered)
}

func TestGroupContentByTopic_PreservesFirstSeenOrder(t *testing.T) {
	grouped := groupContentByTopic(sampleContent())

	assert.Equal(t, []string{"neural_networks", "backpropagation"}, grouped.topics)
	assert.Len(t, grouped.passages["neural_networks"], 2)
	assert.Len(t, grouped.passages["backpropagation"], 1)
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// "α" is 2 bytes; cutting at 3 would split "β".
	assert.Equal(t, "α", truncate("αβγδ", 3))
	assert.Equal(t, "αβ", truncate("αβγδ", 4))

	for n := 0; n <= 8; n++ {
		assert.True(t, utf8.ValidString(truncate("αβγδ", n)), "n=%d", n)
		assert.True(t, utf8.ValidString(truncate("日本語テキスト", n)), "n=%d", n)
	}
}

func TestHumanizeTopic_UppercasesFirstRune(t *testing.T) {
	assert.Equal(t, "Neural Networks", humanizeTopic("neural_networks"))
	assert.Equal(t, "Émile Notation", humanizeTopic("émile_notation"))
	assert.True(t, utf8.ValidString(humanizeTopic("über_matrizen")))
}
