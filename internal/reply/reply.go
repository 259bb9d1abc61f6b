// Package reply provides a pluggable interface for the conversational reply
// generator.
package reply

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator produces a coach reply from an assembled prompt pair. One round
// trip, no streaming.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// --- Gemini Provider ---

// GeminiGenerator generates replies using Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
// Default model: gemini-2.0-flash.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt pair and returns the reply text.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
