package mock

import (
	"context"

	"github.com/fwojciec/policylens"
)

var (
	_ policylens.Summarizer    = (*Summarizer)(nil)
	_ policylens.Classifier    = (*Classifier)(nil)
	_ policylens.Generator     = (*Generator)(nil)
	_ policylens.ModelBackend  = (*ModelBackend)(nil)
	_ policylens.RemoteBackend = (*RemoteBackend)(nil)
	_ policylens.PageAnalyzer  = (*PageAnalyzer)(nil)
	_ policylens.Host          = (*Host)(nil)
)

// Summarizer is a mock implementation of policylens.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.SummarizeFn(ctx, text)
}

// Classifier is a mock implementation of policylens.Classifier.
type Classifier struct {
	ClassifyFn func(ctx context.Context, text string, opts policylens.ClassifyOptions) (policylens.ClassificationResult, error)
}

func (c *Classifier) Classify(ctx context.Context, text string, opts policylens.ClassifyOptions) (policylens.ClassificationResult, error) {
	return c.ClassifyFn(ctx, text, opts)
}

// Generator is a mock implementation of policylens.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

// ModelBackend is a mock implementation of policylens.ModelBackend.
type ModelBackend struct {
	AcquireSummarizerFn func(ctx context.Context) (policylens.Summarizer, error)
	AcquireClassifierFn func(ctx context.Context) (policylens.Classifier, error)
}

func (b *ModelBackend) Mode() policylens.BackendMode {
	return policylens.BackendModels
}

func (b *ModelBackend) AcquireSummarizer(ctx context.Context) (policylens.Summarizer, error) {
	return b.AcquireSummarizerFn(ctx)
}

func (b *ModelBackend) AcquireClassifier(ctx context.Context) (policylens.Classifier, error) {
	return b.AcquireClassifierFn(ctx)
}

// RemoteBackend is a mock implementation of policylens.RemoteBackend.
type RemoteBackend struct {
	AnalyzePolicyFn func(ctx context.Context, text string) (string, error)
}

func (b *RemoteBackend) Mode() policylens.BackendMode {
	return policylens.BackendRemote
}

func (b *RemoteBackend) AnalyzePolicy(ctx context.Context, text string) (string, error) {
	return b.AnalyzePolicyFn(ctx, text)
}

// PageAnalyzer is a mock implementation of policylens.PageAnalyzer.
type PageAnalyzer struct {
	AnalyzeFn func(ctx context.Context, pageURL string) (*policylens.Analysis, error)
}

func (a *PageAnalyzer) Analyze(ctx context.Context, pageURL string) (*policylens.Analysis, error) {
	return a.AnalyzeFn(ctx, pageURL)
}

// Host is a mock implementation of policylens.Host.
type Host struct {
	ActivePageURLFn func(ctx context.Context) (string, error)
	ClosePageFn     func(ctx context.Context) error
}

func (h *Host) ActivePageURL(ctx context.Context) (string, error) {
	return h.ActivePageURLFn(ctx)
}

func (h *Host) ClosePage(ctx context.Context) error {
	return h.ClosePageFn(ctx)
}
