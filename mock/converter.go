package mock

import "github.com/fwojciec/policylens"

var _ policylens.Converter = (*Converter)(nil)

// Converter is a mock implementation of policylens.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
