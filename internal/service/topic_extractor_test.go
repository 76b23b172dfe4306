package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTopics_BigramsRankedFirst(t *testing.T) {
	topics := ExtractTopics("What is machine learning?")

	assert.Equal(t, []string{"machine_learning", "machine", "learning"}, topics)
}

func TestExtractTopics_DropsStopWordsAndShortWords(t *testing.T) {
	topics := ExtractTopics("Why is AI fun?")
	assert.Empty(t, topics)

	topics = ExtractTopics("How does the neural network architecture work?")
	assert.Contains(t, topics, "neural_network")
	assert.Contains(t, topics, "architecture")
	assert.NotContains(t, topics, "does")
	assert.NotContains(t, topics, "the")
}

func TestExtractTopics_LowercasesAndStripsPunctuation(t *testing.T) {
	topics := ExtractTopics("Explain GRADIENT descent, please!")

	assert.Contains(t, topics, "gradient_descent")
	assert.Contains(t, topics, "gradient")
	assert.Contains(t, topics, "descent")
}

func TestExtractTopics_CapsAtEight(t *testing.T) {
	topics := ExtractTopics("quantum entanglement superposition decoherence measurement interference tunneling qubits gates circuits")

	assert.Len(t, topics, 8)
}

func TestExtractTopics_Deterministic(t *testing.T) {
	question := "How does backpropagation update network weights?"

	first := ExtractTopics(question)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractTopics(question))
	}
}
