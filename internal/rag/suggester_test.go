package rag

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCannedSuggester(t *testing.T) {
	ctx := context.Background()

	t.Run("should pick the response matching the leading keyword", func(t *testing.T) {
		req := require.New(t)
		s := &CannedSuggester{Rand: rand.New(rand.NewSource(1))}

		for keyword, want := range cannedResponses {
			got, err := s.Suggest(ctx, keyword+" does this work?")
			req.NoError(err)
			req.Equal(want, got.SuggestedAnswer)
			req.Contains(got.Sources, "Demo Knowledge Base")
		}
	})

	t.Run("should match case insensitively with surrounding whitespace", func(t *testing.T) {
		req := require.New(t)
		s := &CannedSuggester{Rand: rand.New(rand.NewSource(1))}

		got, err := s.Suggest(ctx, "  HOW do I reset my password?  ")
		req.NoError(err)
		req.Equal(cannedResponses["how"], got.SuggestedAnswer)
	})

	t.Run("should keep keyword confidence within bounds", func(t *testing.T) {
		req := require.New(t)
		s := &CannedSuggester{Rand: rand.New(rand.NewSource(42))}

		for i := 0; i < 100; i++ {
			got, err := s.Suggest(ctx, "why is the sky blue?")
			req.NoError(err)
			req.GreaterOrEqual(got.Confidence, 0.65)
			req.LessOrEqual(got.Confidence, 0.85)
		}
	})

	t.Run("should fall back with fixed confidence for unmatched questions", func(t *testing.T) {
		req := require.New(t)
		s := &CannedSuggester{Rand: rand.New(rand.NewSource(1))}

		got, err := s.Suggest(ctx, "is this thing on?")
		req.NoError(err)
		req.Equal(cannedFallback, got.SuggestedAnswer)
		req.Equal(0.60, got.Confidence)
		req.Contains(got.Sources, "General Knowledge Base")
	})

	t.Run("should echo the question back", func(t *testing.T) {
		req := require.New(t)
		s := &CannedSuggester{Rand: rand.New(rand.NewSource(1))}

		got, err := s.Suggest(ctx, "what is a goroutine?")
		req.NoError(err)
		req.Equal("what is a goroutine?", got.Question)
	})
}
