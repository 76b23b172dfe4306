package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/hnam209/studypilot/config"
	"github.com/hnam209/studypilot/internal/retry"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// TextGenerator is the single-shot generative completion capability. It is
// the only suspending external call on the notes pipeline's happy path, so
// implementations wrap it with a timeout and bounded retries; callers still
// treat any returned error as a signal to degrade, never to abort.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiLLMService struct {
	model       *genai.GenerativeModel
	policy      retry.Policy
	callTimeout time.Duration
}

func NewGeminiLLMService(cfg *config.Config) (TextGenerator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Text generation will always fall back to templates.")
		return &geminiLLMService{policy: retry.DefaultPolicy(), callTimeout: 60 * time.Second}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{
		model:       client.GenerativeModel("gemini-2.0-flash"),
		policy:      retry.DefaultPolicy(),
		callTimeout: 60 * time.Second,
	}, nil
}

func (s *geminiLLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	var text string
	err := s.policy.Do(ctx, "gemini_generate", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()

		resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
		if err != nil {
			return fmt.Errorf("gemini generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("gemini returned no content")
		}

		text = ""
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
		if text == "" {
			return fmt.Errorf("gemini returned no text content")
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Gemini text generation failed after retries")
		return "", err
	}
	return text, nil
}
