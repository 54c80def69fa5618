package mock

import "github.com/fwojciec/policylens"

var (
	_ policylens.LinkResolver     = (*LinkResolver)(nil)
	_ policylens.ContentExtractor = (*ContentExtractor)(nil)
)

// LinkResolver is a mock implementation of policylens.LinkResolver.
type LinkResolver struct {
	ResolveLinkFn func(html, pageURL string) (string, error)
}

func (r *LinkResolver) ResolveLink(html, pageURL string) (string, error) {
	return r.ResolveLinkFn(html, pageURL)
}

// ContentExtractor is a mock implementation of policylens.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string) (*policylens.ExtractedContent, error)
}

func (e *ContentExtractor) ExtractContent(html string) (*policylens.ExtractedContent, error) {
	return e.ExtractContentFn(html)
}
