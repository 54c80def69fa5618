package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/policylens"
)

var (
	_ policylens.ModelBackend  = (*LoggingModelBackend)(nil)
	_ policylens.RemoteBackend = (*LoggingRemoteBackend)(nil)
	_ policylens.Summarizer    = (*LoggingSummarizer)(nil)
	_ policylens.Classifier    = (*LoggingClassifier)(nil)
	_ policylens.Generator     = (*LoggingGenerator)(nil)
)

// LoggingModelBackend wraps a ModelBackend, logging model acquisition and
// wrapping the acquired models with logging.
type LoggingModelBackend struct {
	next   policylens.ModelBackend
	logger *slog.Logger
}

// NewLoggingModelBackend creates a new LoggingModelBackend.
func NewLoggingModelBackend(next policylens.ModelBackend, logger *slog.Logger) *LoggingModelBackend {
	return &LoggingModelBackend{next: next, logger: logger}
}

func (b *LoggingModelBackend) Mode() policylens.BackendMode {
	return b.next.Mode()
}

func (b *LoggingModelBackend) AcquireSummarizer(ctx context.Context) (s policylens.Summarizer, err error) {
	defer func(begin time.Time) {
		b.logger.Info("acquire model", "role", "summarizer", "duration", time.Since(begin), "err", err)
	}(time.Now())

	s, err = b.next.AcquireSummarizer(ctx)
	if err != nil {
		return nil, err
	}
	return NewLoggingSummarizer(s, b.logger), nil
}

func (b *LoggingModelBackend) AcquireClassifier(ctx context.Context) (c policylens.Classifier, err error) {
	defer func(begin time.Time) {
		b.logger.Info("acquire model", "role", "classifier", "duration", time.Since(begin), "err", err)
	}(time.Now())

	c, err = b.next.AcquireClassifier(ctx)
	if err != nil {
		return nil, err
	}
	return NewLoggingClassifier(c, b.logger), nil
}

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   policylens.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next policylens.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

func (s *LoggingSummarizer) Summarize(ctx context.Context, text string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"input", len(text),
			"output", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, text)
}

// LoggingClassifier wraps a Classifier with logging. Chunks are classified
// concurrently, so each call logs the top label to tell them apart.
type LoggingClassifier struct {
	next   policylens.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next policylens.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

func (c *LoggingClassifier) Classify(ctx context.Context, text string, opts policylens.ClassifyOptions) (result policylens.ClassificationResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"input", len(text),
			"labels", len(result),
		}
		if len(result) > 0 {
			attrs = append(attrs, "top", result[0].Name, "score", result[0].Score)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		c.logger.Info("classify", attrs...)
	}(time.Now())
	return c.next.Classify(ctx, text, opts)
}

// LoggingRemoteBackend wraps a RemoteBackend with logging.
type LoggingRemoteBackend struct {
	next   policylens.RemoteBackend
	logger *slog.Logger
}

// NewLoggingRemoteBackend creates a new LoggingRemoteBackend.
func NewLoggingRemoteBackend(next policylens.RemoteBackend, logger *slog.Logger) *LoggingRemoteBackend {
	return &LoggingRemoteBackend{next: next, logger: logger}
}

func (b *LoggingRemoteBackend) Mode() policylens.BackendMode {
	return b.next.Mode()
}

func (b *LoggingRemoteBackend) AnalyzePolicy(ctx context.Context, text string) (analysis string, err error) {
	defer func(begin time.Time) {
		b.logger.Info("remote analysis",
			"input", len(text),
			"output", len(analysis),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.AnalyzePolicy(ctx, text)
}

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   policylens.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next policylens.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (out string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt", len(prompt),
			"output", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}
