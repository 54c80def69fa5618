package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/policylens"
)

var _ policylens.PageAnalyzer = (*LoggingPageAnalyzer)(nil)

// LoggingPageAnalyzer wraps a PageAnalyzer, logging one line per run.
type LoggingPageAnalyzer struct {
	next   policylens.PageAnalyzer
	logger *slog.Logger
}

// NewLoggingPageAnalyzer creates a new LoggingPageAnalyzer.
func NewLoggingPageAnalyzer(next policylens.PageAnalyzer, logger *slog.Logger) *LoggingPageAnalyzer {
	return &LoggingPageAnalyzer{next: next, logger: logger}
}

func (a *LoggingPageAnalyzer) Analyze(ctx context.Context, pageURL string) (analysis *policylens.Analysis, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL}
		if analysis != nil {
			attrs = append(attrs,
				"policy", analysis.PolicyURL,
				"chunks", len(analysis.Classifications),
			)
		}
		if err != nil {
			attrs = append(attrs, "code", policylens.ErrorCode(err))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		a.logger.Info("analyze", attrs...)
	}(time.Now())
	return a.next.Analyze(ctx, pageURL)
}
