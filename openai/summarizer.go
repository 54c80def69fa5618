package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/policylens"
	"github.com/sashabaranov/go-openai"
)

const summarySystemPrompt = "You summarize website privacy policies for ordinary readers. Be concise and factual. Use only the policy text provided."

var (
	_ policylens.Summarizer = (*Summarizer)(nil)
	_ policylens.Generator  = (*Summarizer)(nil)
)

// Summarizer summarizes policies with a chat model.
type Summarizer struct {
	client ChatCompleter
	model  string
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client ChatCompleter, model string) *Summarizer {
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
	return complete(ctx, s.client, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages(summarySystemPrompt, prompt),
		Temperature: 0.4,
	})
}
