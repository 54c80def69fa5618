package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/policylens"
)

var _ policylens.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. The first
// discovered URL is logged since the analyzer takes it as the policy page.
type LoggingSitemapService struct {
	next   policylens.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next policylens.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the candidates found.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *policylens.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		var first string
		if len(urls) > 0 {
			first = urls[0]
		}
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"first", first,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
