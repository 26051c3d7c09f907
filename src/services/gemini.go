// backend/src/services/gemini.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/username/dartviewer/backend/src/observability"
)

const DefaultGeminiModel = "gemini-1.5-pro"

var ErrEmptyGeneration = errors.New("model returned no text")

type geminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a TextGenerator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (TextGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiGenerator{client: client, model: model, temperature: 0.4}, nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(g.temperature),
		},
	)
	observability.ObserveUpstream("gemini", g.model, start, err)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}
