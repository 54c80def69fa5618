package gemini

import (
	"context"

	"github.com/fwojciec/policylens"
	"google.golang.org/genai"
)

var _ policylens.Classifier = (*Classifier)(nil)

// Classifier scores policy chunks with a Gemini model constrained to a JSON
// object of category scores.
type Classifier struct {
	client *genai.Client
	model  string
}

// NewClassifier creates a new Classifier.
func NewClassifier(client *genai.Client, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Classify returns one label per category, highest score first.
func (c *Classifier) Classify(ctx context.Context, text string, opts policylens.ClassifyOptions) (policylens.ClassificationResult, error) {
	if text == "" {
		return nil, policylens.Errorf(policylens.EINVALID, "text required")
	}
	raw, err := generate(ctx, c.client, c.model, policylens.ScorePrompt(text), BuildClassifyConfig())
	if err != nil {
		return nil, err
	}
	return policylens.ParseLabelScores(raw, opts)
}

// BuildClassifyConfig returns the GenerateContentConfig for classification.
// The response schema has one number property per category in [0,1].
func BuildClassifyConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	lo, hi := 0.0, 1.0
	props := make(map[string]*genai.Schema, len(policylens.Categories))
	for _, name := range policylens.Categories {
		props[name] = &genai.Schema{Type: genai.TypeNumber, Minimum: &lo, Maximum: &hi}
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You rate privacy policy text. Reply only with JSON.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			PropertyOrdering: policylens.Categories,
			Required:         policylens.Categories,
		},
	}
}
