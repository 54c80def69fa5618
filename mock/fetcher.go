package mock

import (
	"context"

	"github.com/fwojciec/policylens"
)

var _ policylens.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of policylens.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ policylens.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of policylens.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
