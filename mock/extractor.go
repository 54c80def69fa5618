package mock

import "github.com/fwojciec/policylens"

var _ policylens.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of policylens.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*policylens.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*policylens.ExtractResult, error) {
	return e.ExtractFn(html)
}
