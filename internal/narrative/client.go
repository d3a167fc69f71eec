package narrative

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"trafficpulse/internal/config"
	apperrors "trafficpulse/internal/errors"
)

// Generator produces narrative text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator generates summaries through the Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a generator from the narrative
// configuration.
func NewGeminiGenerator(ctx context.Context, cfg config.NarrativeConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigError("narrative API key is required", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewNarrativeError("failed to create generation client", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Generate sends the prompt and returns the trimmed response text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", apperrors.NewNarrativeError("generation request failed", err).
			WithContext("model", g.model)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.NewNarrativeError("generation returned no text", nil).
			WithContext("model", g.model)
	}
	return text, nil
}
