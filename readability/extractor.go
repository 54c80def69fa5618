// Package readability recovers the main text of a policy page with the
// Readability algorithm. It is an alternative to package trafilatura for
// sites whose markup trafilatura reduces to nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/policylens"
	"github.com/go-shiori/go-readability"
)

var _ policylens.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and its main content as HTML.
// Returns EINVALID for empty input and EEXTRACTIONEMPTY when no readable
// content remains.
func (e *Extractor) Extract(rawHTML string) (*policylens.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, policylens.Errorf(policylens.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, policylens.Errorf(policylens.EEXTRACTIONEMPTY, "no readable content: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, policylens.Errorf(policylens.EEXTRACTIONEMPTY, "no readable content")
	}

	title := article.Title
	if title == "" {
		title = article.SiteName
	}

	return &policylens.ExtractResult{
		Title:       title,
		ContentHTML: article.Content,
	}, nil
}
