package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/policylens"
	"google.golang.org/genai"
)

var (
	_ policylens.Summarizer = (*Summarizer)(nil)
	_ policylens.Generator  = (*Summarizer)(nil)
)

// Summarizer summarizes policies with a Gemini model.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Summarize summarizes the whole policy text in one call.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", policylens.Errorf(policylens.EINVALID, "text required")
	}
	return s.Generate(ctx, policylens.SummaryPrompt(text))
}

// Generate completes a raw prompt.
func (s *Summarizer) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := generate(ctx, s.client, s.model, prompt, BuildSummaryConfig())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BuildSummaryConfig returns the GenerateContentConfig for summaries.
func BuildSummaryConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize website privacy policies for ordinary readers. Be concise and factual. Use only the policy text provided.",
			}},
		},
		Temperature: &temp,
	}
}
