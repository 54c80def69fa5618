package openai

import (
	"context"

	"github.com/fwojciec/policylens"
	"github.com/sashabaranov/go-openai"
)

const classifySystemPrompt = "You rate privacy policy text. Reply only with a JSON object."

var _ policylens.Classifier = (*Classifier)(nil)

// Classifier scores policy chunks with a chat model in JSON mode.
type Classifier struct {
	client ChatCompleter
	model  string
}

// NewClassifier creates a new Classifier.
func NewClassifier(client ChatCompleter, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Classify returns one label per category, highest score first.
func (c *Classifier) Classify(ctx context.Context, text string, opts policylens.ClassifyOptions) (policylens.ClassificationResult, error) {
	if text == "" {
		return nil, policylens.Errorf(policylens.EINVALID, "text required")
	}
	raw, err := complete(ctx, c.client, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages(classifySystemPrompt, policylens.ScorePrompt(text)),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	return policylens.ParseLabelScores(raw, opts)
}
