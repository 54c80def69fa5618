package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/policylens"
	"github.com/fwojciec/policylens/mock"
	plslog "github.com/fwojciec/policylens/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs candidate count and first candidate", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var gotFilter *policylens.URLFilter
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *policylens.URLFilter) ([]string, error) {
				gotFilter = filter
				return []string{"https://example.com/privacy", "https://example.com/privacy/cookies"}, nil
			},
		}

		filter := policylens.PrivacyURLFilter()
		svc := plslog.NewLoggingSitemapService(inner, logger)
		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com", filter)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Same(t, filter, gotFilter)
		output := buf.String()
		assert.Contains(t, output, "sitemap discovery")
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "first=https://example.com/privacy ")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *policylens.URLFilter) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := plslog.NewLoggingSitemapService(inner, logger)
		_, err := svc.DiscoverURLs(context.Background(), "https://example.com", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "err=\"connection failed\"")
	})
}
