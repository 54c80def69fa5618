package mock

import (
	"context"

	"github.com/fwojciec/policylens"
)

var _ policylens.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of policylens.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *policylens.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *policylens.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
