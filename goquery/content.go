package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/policylens"
)

// Ensure ContentExtractor implements policylens.ContentExtractor.
var _ policylens.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor collects the union of all heuristic matches.
type ContentExtractor struct {
	rules []rule
}

// NewContentExtractor compiles heuristics into an extractor. An empty list
// selects DefaultContentHeuristics.
func NewContentExtractor(heuristics []policylens.Heuristic) (*ContentExtractor, error) {
	if len(heuristics) == 0 {
		heuristics = DefaultContentHeuristics()
	}
	rules, err := compileRules(heuristics)
	if err != nil {
		return nil, err
	}
	return &ContentExtractor{rules: rules}, nil
}

// ExtractContent returns matches in heuristic order, then document order.
// An element matched by several heuristics is reported once per heuristic.
// Elements with no text are skipped.
func (e *ContentExtractor) ExtractContent(html string) (*policylens.ExtractedContent, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var matched []policylens.MatchedElement
	for _, rule := range e.rules {
		id := rule.heuristic.String()
		doc.FindMatcher(rule.matcher).Each(func(_ int, sel *goquery.Selection) {
			content := rule.value(sel)
			if content == "" || !rule.matches(content) {
				return
			}
			matched = append(matched, policylens.MatchedElement{Selector: id, Content: content})
		})
	}
	return policylens.NewExtractedContent(matched), nil
}
