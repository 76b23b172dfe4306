package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const passagesPerTopic = 3

// SynthesisResult carries the note body plus the set of topics the grouped
// content actually covered. The body has the same top-level structure and
// the same numeric substitutions whether the generative or the fallback path
// produced it, so consumers cannot tell the paths apart from the data.
type SynthesisResult struct {
	Body          string
	TopicsCovered []string
}

// NotesSynthesizer builds the personalized note body. The primary path
// prompts the generative model; any failure switches to the deterministic
// fallback path, which assembles an equivalent document from fixed prose
// templates and the same grouped content. Both paths are independently
// callable so each can be tested without forcing the other to fail.
type NotesSynthesizer interface {
	Synthesize(ctx context.Context, analysis PerformanceAnalysis, content []RetrievedContentItem, docTitle string) SynthesisResult
}

type notesSynthesizer struct {
	generator TextGenerator
	planner   StudyPlanner
}

func NewNotesSynthesizer(generator TextGenerator, planner StudyPlanner) NotesSynthesizer {
	return &notesSynthesizer{generator: generator, planner: planner}
}

// groupedContent keeps per-topic passages in first-seen topic order so the
// output is deterministic.
type groupedContent struct {
	topics   []string
	passages map[string][]string
}

func groupContentByTopic(content []RetrievedContentItem) groupedContent {
	grouped := groupedContent{passages: make(map[string][]string)}
	for _, item := range content {
		if _, seen := grouped.passages[item.Topic]; !seen {
			grouped.topics = append(grouped.topics, item.Topic)
		}
		grouped.passages[item.Topic] = append(grouped.passages[item.Topic], item.Content)
	}
	return grouped
}

// coveredTopics excludes the sentinel routing topic.
func (g groupedContent) coveredTopics() []string {
	topics := make([]string, 0, len(g.topics))
	for _, t := range g.topics {
		if t == GeneralContentTopic {
			continue
		}
		topics = append(topics, t)
	}
	return topics
}

func (s *notesSynthesizer) Synthesize(ctx context.Context, analysis PerformanceAnalysis, content []RetrievedContentItem, docTitle string) SynthesisResult {
	grouped := groupContentByTopic(content)

	body, err := s.synthesizeWithModel(ctx, analysis, grouped, docTitle)
	if err != nil {
		log.Warn().Err(err).Str("document", docTitle).Msg("Generative notes synthesis failed, using fallback template")
		body = s.fallbackNotes(analysis, grouped, docTitle)
	}

	return SynthesisResult{Body: body, TopicsCovered: grouped.coveredTopics()}
}

// synthesizeWithModel is the primary path.
func (s *notesSynthesizer) synthesizeWithModel(ctx context.Context, analysis PerformanceAnalysis, grouped groupedContent, docTitle string) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("text generator unavailable")
	}
	body, err := s.generator.GenerateText(ctx, buildNotesPrompt(analysis, grouped, docTitle))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("generator returned empty note body")
	}
	return body, nil
}

func buildNotesPrompt(analysis PerformanceAnalysis, grouped groupedContent, docTitle string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational content creator. Create comprehensive, detailed study notes based on the student's quiz performance analysis.\n\n")
	b.WriteString("STUDENT PERFORMANCE ANALYSIS:\n")
	fmt.Fprintf(&b, "- Overall Quiz Score: %.1f%%\n", analysis.ScorePercentage)
	fmt.Fprintf(&b, "- Performance Level: %s\n", analysis.PerformanceLevel)
	fmt.Fprintf(&b, "- Document Source: %s\n", docTitle)
	fmt.Fprintf(&b, "- Primary Areas Needing Improvement: %s\n", strings.Join(topN(analysis.WeakTopics, 5), ", "))
	b.WriteString("\nRELEVANT CONTENT FROM DOCUMENT:\n")

	for _, topic := range grouped.topics {
		fmt.Fprintf(&b, "\n\n=== TOPIC: %s ===\n", strings.ToUpper(topic))
		for i, passage := range topN(grouped.passages[topic], passagesPerTopic) {
			fmt.Fprintf(&b, "Content %d: %s...\n\n", i+1, truncate(passage, 400))
		}
	}

	b.WriteString("\nINSTRUCTIONS FOR COMPREHENSIVE NOTES:\n")
	fmt.Fprintf(&b, "Create detailed, structured study notes that are personalized for this student's performance level (%s).\n\n", analysis.PerformanceLevel)
	b.WriteString(`REQUIRED STRUCTURE:

# 📚 Personalized Study Notes: [Document Title]

## 🎯 Executive Summary
- Brief overview of quiz performance
- Key areas requiring immediate attention
- Learning objectives for this study session

## 📊 Performance Analysis
- Detailed breakdown of quiz results
- Strengths and weaknesses identified
- Learning gaps to address

## 🔍 Priority Topics for Review

For EACH weak topic identified, create a comprehensive section with:

### [Topic Name]

#### 📖 Core Concepts
- Fundamental definitions and principles
- Key terminology with clear explanations

#### 🔬 Detailed Explanation
- In-depth explanation using content from the document
- Real-world applications and examples
- Common misconceptions to avoid

#### 💡 Key Points to Remember
- Bullet points of essential information
- Memory aids and mnemonics

#### 🎯 Practice Focus Areas
- Specific aspects to practice
- Types of questions to expect

## 📝 Additional Study Materials

### 🧠 Self-Assessment Questions
Create 3-5 practice questions for each weak topic to test understanding

### 🔄 Review Schedule
- Immediate review priorities (next 24 hours)
- Short-term goals (next week)
- Long-term retention strategies

## 🎯 Personalized Study Strategy
Specific study techniques, time allocation and progress tracking suited to the performance level.

IMPORTANT GUIDELINES:
1. Make content detailed and comprehensive - avoid just headlines
2. Use the actual content from the document extensively
3. Explain concepts thoroughly with examples
4. Tailor difficulty and depth to the student's performance level
5. Include specific, actionable study advice
6. Focus heavily on the identified weak areas

Generate comprehensive, detailed notes that will genuinely help this student improve their understanding and performance.
`)
	return b.String()
}

// fallbackNotes is the deterministic path: same top-level sections, same
// numeric substitutions, no model call. It works on zero content items too.
func (s *notesSynthesizer) fallbackNotes(analysis PerformanceAnalysis, grouped groupedContent, docTitle string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 📚 Comprehensive Study Notes: %s\n\n", docTitle)

	b.WriteString("## 🎯 Executive Summary\n")
	fmt.Fprintf(&b, "Based on your quiz performance of %.1f%%, this study guide focuses on strengthening your understanding in key areas where improvement is needed.\n\n", analysis.ScorePercentage)
	fmt.Fprintf(&b, "**Performance Level:** %s\n", humanizeLevel(analysis.PerformanceLevel))
	fmt.Fprintf(&b, "**Primary Focus Areas:** %s\n\n", strings.Join(topN(analysis.WeakTopics, 5), ", "))

	b.WriteString("## 📊 Performance Analysis\n")
	fmt.Fprintf(&b, "- **Total Questions:** %d\n", analysis.TotalQuestions)
	fmt.Fprintf(&b, "- **Correct Answers:** %d\n", analysis.CorrectAnswers)
	fmt.Fprintf(&b, "- **Score:** %.1f%%\n", analysis.ScorePercentage)
	fmt.Fprintf(&b, "- **Areas Requiring Attention:** %d topics identified\n\n", len(analysis.WeakTopics))

	b.WriteString("## 🔍 Priority Topics for Detailed Review\n\n")
	for i, topic := range grouped.topics {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, humanizeTopic(topic))
		b.WriteString("#### 📖 Core Concepts\n")
		b.WriteString("This topic appeared in your quiz and requires focused attention based on your performance.\n\n")
		b.WriteString("#### 🔬 Key Information from Document\n")
		for j, passage := range topN(grouped.passages[topic], passagesPerTopic) {
			fmt.Fprintf(&b, "**Content %d:**\n%s...\n\n", j+1, truncate(passage, 500))
			b.WriteString("**Key Takeaways:**\n")
			b.WriteString("- Review the fundamental concepts presented above\n")
			b.WriteString("- Pay attention to definitions and key terminology\n")
			b.WriteString("- Understand the relationships between different elements\n\n")
		}
		fmt.Fprintf(&b, "#### 💡 Study Focus for %s\n", humanizeTopic(topic))
		b.WriteString("- **Immediate Priority:** Review the content above thoroughly\n")
		b.WriteString("- **Practice Needed:** Create your own examples and explanations\n")
		b.WriteString("- **Common Mistakes:** Pay attention to details that might have caused quiz errors\n")
		b.WriteString("- **Mastery Check:** Can you explain this concept to someone else?\n\n")
	}

	b.WriteString("## 📝 Comprehensive Study Strategy\n\n")
	b.WriteString("### 🧠 Self-Assessment Questions\n")
	b.WriteString("For each topic above, ask yourself:\n")
	b.WriteString("1. Can I define the key terms without looking?\n")
	b.WriteString("2. Do I understand how this concept applies in practice?\n")
	b.WriteString("3. What examples can I think of for this topic?\n")
	b.WriteString("4. How does this relate to other concepts in the document?\n\n")

	b.WriteString("### 🔄 Recommended Study Schedule\n")
	fmt.Fprintf(&b, "**Based on your %s performance:**\n\n", strings.ReplaceAll(analysis.PerformanceLevel, "_", " "))
	b.WriteString("**Immediate (Next 24 hours):**\n")
	b.WriteString("- Review all highlighted content above\n")
	b.WriteString("- Create summary notes for each weak topic\n")
	b.WriteString("- Test your understanding with the self-assessment questions\n\n")
	b.WriteString("**Short-term (Next week):**\n")
	b.WriteString("- Practice applying concepts in different contexts\n")
	b.WriteString("- Seek additional examples and explanations\n\n")
	b.WriteString("**Long-term:**\n")
	b.WriteString("- Regular review sessions to maintain knowledge\n")
	b.WriteString("- Connect these concepts to new learning\n\n")

	b.WriteString("## 🎯 Personalized Study Strategy\n")
	b.WriteString("1. **Active Reading:** Don't just read - summarize and explain concepts aloud\n")
	b.WriteString("2. **Concept Mapping:** Draw connections between different topics\n")
	b.WriteString("3. **Practice Application:** Use concepts in different scenarios\n")
	b.WriteString("4. **Regular Testing:** Quiz yourself frequently on the material\n\n")

	b.WriteString("## ✅ Next Steps\n")
	b.WriteString("1. **Start with the highest priority topic** (first one listed above)\n")
	b.WriteString("2. **Spend focused time** on each section - don't rush\n")
	b.WriteString("3. **Test yourself regularly** using the self-assessment approach\n")
	b.WriteString("4. **Track your progress** and celebrate improvements\n\n")

	fmt.Fprintf(&b, "**Estimated Study Time:** %s\n", s.planner.EstimatedStudyTime(analysis.ScorePercentage, len(analysis.WeakAreas)))
	fmt.Fprintf(&b, "**Recommended Review Date:** %s\n\n", s.planner.NextReviewDate(analysis.PerformanceLevel, time.Now()))
	b.WriteString("---\n*These notes are personalized based on your quiz performance. Focus on the areas highlighted above for maximum improvement.*\n")

	return b.String()
}

func topN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func humanizeTopic(topic string) string {
	return titleWords(strings.ReplaceAll(topic, "_", " "))
}

func humanizeLevel(level string) string {
	return titleWords(strings.ReplaceAll(level, "_", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
