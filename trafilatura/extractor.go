// Package trafilatura recovers the main text of a policy page when none of
// the content heuristics match.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/policylens"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ policylens.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to strip navigation, footers and other
// boilerplate from a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and its main content as HTML.
// Returns EINVALID for empty input and EEXTRACTIONEMPTY when the page has
// no main content.
func (e *Extractor) Extract(rawHTML string) (*policylens.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, policylens.Errorf(policylens.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, policylens.Errorf(policylens.EEXTRACTIONEMPTY, "no main content: %v", err)
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, policylens.Errorf(policylens.EINTERNAL, "rendering content: %v", err)
		}
	}

	title := result.Metadata.Title
	if title == "" {
		title = result.Metadata.Sitename
	}

	return &policylens.ExtractResult{
		Title:       title,
		ContentHTML: buf.String(),
	}, nil
}
