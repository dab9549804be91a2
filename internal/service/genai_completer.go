package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenaiCompleter adapts the Gemini client to the TextCompleter interface.
type GenaiCompleter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGenaiCompleter builds a Gemini-backed completer.
func NewGenaiCompleter(ctx context.Context, apiKey, modelName string, maxOutputTokens int, temperature float64) (*GenaiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	if maxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(maxOutputTokens))
	}
	model.SetTemperature(float32(temperature))

	return &GenaiCompleter{client: client, model: model}, nil
}

// Complete sends the prompt and returns the concatenated candidate text.
func (g *GenaiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// Close releases the underlying client.
func (g *GenaiCompleter) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
