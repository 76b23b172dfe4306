package service

import (
	"strings"
	"unicode"
)

const maxTopicsPerQuestion = 8

// Question words, articles, conjunctions and auxiliary verbs carry no topic
// signal and are dropped before keyword extraction.
var topicStopWords = map[string]struct{}{
	"what": {}, "how": {}, "why": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"is": {}, "are": {}, "the": {}, "a": {}, "an": {},
	"does": {}, "do": {}, "can": {}, "will": {}, "would": {}, "should": {}, "could": {},
	"might": {}, "may": {}, "must": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"and": {}, "or": {}, "but": {}, "for": {}, "with": {}, "from": {}, "to": {},
}

// ExtractTopics pulls candidate topic keywords out of a question's text.
// Adjacent surviving words are also joined into bigrams ("neural_networks")
// to capture compound concepts; bigrams are ranked ahead of single words.
// The result is capped at 8 entries. Deterministic, no failure modes.
func ExtractTopics(questionText string) []string {
	words := strings.FieldsFunc(strings.ToLower(questionText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	keep := func(w string) bool {
		if len(w) <= 3 {
			return false
		}
		_, stop := topicStopWords[w]
		return !stop
	}

	var unigrams []string
	for _, w := range words {
		if keep(w) {
			unigrams = append(unigrams, w)
		}
	}

	var bigrams []string
	for i := 0; i+1 < len(words); i++ {
		if keep(words[i]) && keep(words[i+1]) {
			bigrams = append(bigrams, words[i]+"_"+words[i+1])
		}
	}

	topics := append(bigrams, unigrams...)
	if len(topics) > maxTopicsPerQuestion {
		topics = topics[:maxTopicsPerQuestion]
	}
	return topics
}
