package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

	systemPrompt = "You are a helpful Q&A assistant. Provide concise, accurate answers to user questions. If you're not sure about something, say so. Keep answers under 200 words."
)

// OpenAISuggester asks the chat-completions API for an answer and falls
// back to the canned suggester when the call fails.
type OpenAISuggester struct {
	apiKey   string
	model    string
	client   *http.Client
	fallback *CannedSuggester
	log      *slog.Logger
}

func NewOpenAISuggester(apiKey, model string, log *slog.Logger) *OpenAISuggester {
	return &OpenAISuggester{
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 30 * time.Second},
		fallback: &CannedSuggester{},
		log:      log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *OpenAISuggester) Suggest(ctx context.Context, question string) (Suggestion, error) {
	answer, err := s.complete(ctx, question)
	if err != nil {
		s.log.Warn("suggestion request failed, using canned answer", "err", err)
		return s.fallback.Suggest(ctx, question)
	}
	return Suggestion{
		Question:        question,
		SuggestedAnswer: answer,
		Confidence:      0.85,
		Sources:         []string{"OpenAI " + s.model},
	}, nil
}

func (s *OpenAISuggester) complete(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions: status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completions: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
