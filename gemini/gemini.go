// Package gemini implements policylens inference capabilities with Google
// Gemini models.
package gemini

import (
	"context"
	"os"

	"github.com/fwojciec/policylens"
	"google.golang.org/genai"
)

// NewClient creates a Gemini API client. An empty apiKey falls back to the
// GEMINI_API_KEY environment variable.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, policylens.Errorf(policylens.EBACKEND, "GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, policylens.Errorf(policylens.EBACKEND, "creating gemini client: %v", err)
	}
	return client, nil
}

// generate sends one prompt and returns the response text.
func generate(ctx context.Context, client *genai.Client, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if client == nil {
		return "", policylens.Errorf(policylens.EBACKEND, "gemini client not configured")
	}

	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", policylens.Errorf(policylens.EBACKEND, "gemini %s: %v", model, err)
	}
	if result == nil {
		return "", policylens.Errorf(policylens.EBACKEND, "gemini returned nil result")
	}
	return result.Text(), nil
}
