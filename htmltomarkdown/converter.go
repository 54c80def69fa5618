// Package htmltomarkdown turns policy markup into the Markdown text that is
// chunked and sent to the models.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/policylens"
)

var _ policylens.Converter = (*Converter)(nil)

var (
	imageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// Option configures a Converter.
type Option func(*Converter)

// KeepLinks keeps link targets in the output.
func KeepLinks() Option {
	return func(c *Converter) {
		c.keepLinks = true
	}
}

// Converter converts HTML to Markdown. By default link targets and images
// are dropped: URLs carry periods that the sentence splitter would treat
// as sentence ends, and they add nothing to the analysis.
type Converter struct {
	conv      *converter.Converter
	keepLinks bool
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", policylens.Errorf(policylens.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", policylens.Errorf(policylens.EINTERNAL, "converting HTML: %v", err)
	}

	if !c.keepLinks {
		md = imageRe.ReplaceAllString(md, "")
		md = linkRe.ReplaceAllString(md, "$1")
	}
	md = blankRunsRe.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}
