package policylens

import "strings"

// NoRelevantContent is the extracted text when no content heuristic matched.
const NoRelevantContent = "no relevant content found"

// Heuristic is a structural or textual pattern used to guess which elements
// of a page are relevant. Heuristics are data: they can be loaded from
// configuration and tuned without touching the pipeline.
type Heuristic struct {
	// Selector is a CSS selector evaluated against the parsed page.
	Selector string `mapstructure:"selector" json:"selector"`

	// Pattern is an optional regular expression. When set, only elements
	// whose text (or Attr value) matches are kept.
	Pattern string `mapstructure:"pattern" json:"pattern,omitempty"`

	// Attr reads the element's attribute instead of its text content.
	// Used for metadata tags such as <meta name="description">.
	Attr string `mapstructure:"attr" json:"attr,omitempty"`
}

// String returns the heuristic's identifier as reported in MatchedElement.
func (h Heuristic) String() string {
	if h.Pattern == "" {
		return h.Selector
	}
	return h.Selector + " /" + h.Pattern + "/"
}

// MatchedElement is one element matched by a content heuristic.
type MatchedElement struct {
	Selector string `json:"selector"`
	Content  string `json:"content"`
}

// ExtractedContent is the union of all elements matched by content heuristics.
// Matched is ordered by heuristic order, then by document order within a
// heuristic. Elements matched by several heuristics appear once per match.
type ExtractedContent struct {
	Text    string           `json:"text"`
	Matched []MatchedElement `json:"matched"`
}

// NewExtractedContent joins matched elements with blank lines.
// Returns the NoRelevantContent sentinel when nothing matched.
func NewExtractedContent(matched []MatchedElement) *ExtractedContent {
	if len(matched) == 0 {
		return &ExtractedContent{Text: NoRelevantContent, Matched: []MatchedElement{}}
	}

	parts := make([]string, 0, len(matched))
	for _, m := range matched {
		parts = append(parts, m.Content)
	}
	return &ExtractedContent{
		Text:    strings.Join(parts, "\n\n"),
		Matched: matched,
	}
}

// Empty reports whether no heuristic matched.
func (c *ExtractedContent) Empty() bool {
	return c == nil || len(c.Matched) == 0
}

// LinkResolver finds the most probable privacy policy link on a page.
type LinkResolver interface {
	// ResolveLink returns the absolute URL of the policy page.
	// Relative links are resolved against pageURL.
	// Returns ELINKNOTFOUND if no heuristic matched and EINVALID if the
	// page URL or markup could not be parsed.
	ResolveLink(html string, pageURL string) (string, error)
}

// ContentExtractor collects policy text from a page.
type ContentExtractor interface {
	// ExtractContent returns every element matched by every heuristic.
	// A page with no matches is not an error: the result is Empty and its
	// Text is NoRelevantContent.
	ExtractContent(html string) (*ExtractedContent, error)
}
