package rag

import (
	"context"
	"math/rand"
	"strings"
)

// Suggestion is an auto-suggested answer for a question.
type Suggestion struct {
	Question        string
	SuggestedAnswer string
	Confidence      float64
	Sources         []string
}

// Suggester produces an answer suggestion for a question. The dashboard
// treats this as an external collaborator: a failing suggester never
// affects questions or answers.
type Suggester interface {
	Suggest(ctx context.Context, question string) (Suggestion, error)
}

// cannedResponses maps a leading question word to a generic answer, used
// when no language model is configured.
var cannedResponses = map[string]string{
	"how":   "To accomplish this, you would typically follow these steps: 1) Research the requirements, 2) Plan your approach, 3) Implement the solution, 4) Test thoroughly. This is a general framework that can be adapted to your specific needs.",
	"what":  "This is a great question! Based on common knowledge, the answer involves understanding the core concepts and applying them to your specific context. I'd recommend researching more about the specific topic you're asking about.",
	"why":   "There are several reasons for this: 1) Historical context, 2) Technical requirements, 3) Best practices in the field. Understanding these factors will help clarify the reasoning behind it.",
	"when":  "The timing for this depends on several factors including your specific requirements and constraints. Generally, it's best to consider the context and plan accordingly.",
	"where": "The location or placement depends on your specific use case. Common approaches include considering accessibility, performance, and maintainability factors.",
}

const cannedFallback = "Thank you for your question! This is an interesting topic. I suggest researching authoritative sources or consulting with domain experts for the most accurate and up-to-date information. If you'd like a more specific answer, please provide additional context or details."

// CannedSuggester answers from a small table keyed on the question's
// leading word. It never fails.
type CannedSuggester struct {
	// rand source injectable for deterministic tests; nil uses the
	// package-global source.
	Rand *rand.Rand
}

func (s *CannedSuggester) Suggest(_ context.Context, question string) (Suggestion, error) {
	lower := strings.ToLower(strings.TrimSpace(question))
	for keyword, response := range cannedResponses {
		if strings.HasPrefix(lower, keyword) {
			return Suggestion{
				Question:        question,
				SuggestedAnswer: response,
				Confidence:      roundConfidence(0.65 + s.float64()*0.20),
				Sources:         []string{"Mock RAG System", "Demo Knowledge Base"},
			}, nil
		}
	}
	return Suggestion{
		Question:        question,
		SuggestedAnswer: cannedFallback,
		Confidence:      0.60,
		Sources:         []string{"Mock RAG System", "General Knowledge Base"},
	}, nil
}

func (s *CannedSuggester) float64() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

func roundConfidence(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
