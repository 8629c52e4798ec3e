package genmodel

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini implements Generator against the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	safety []*genai.SafetySetting
}

// NewGemini creates a Gemini-backed generator. threshold is a HarmBlockThreshold
// name (e.g. BLOCK_ONLY_HIGH) applied uniformly to all harm categories.
func NewGemini(ctx context.Context, apiKey, model, threshold string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	t := genai.HarmBlockThreshold(threshold)
	var safety []*genai.SafetySetting
	for _, cat := range []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	} {
		safety = append(safety, &genai.SafetySetting{Category: cat, Threshold: t})
	}

	return &Gemini{client: client, model: model, safety: safety}, nil
}

// Generate sends the prompt and returns the concatenated text of the first
// candidate. Safety blocks and empty candidates surface as plain errors; the
// orchestrator treats every provider error as model-unavailable.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{SafetySettings: g.safety},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}
