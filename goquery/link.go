package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/policylens"
)

// Ensure LinkResolver implements policylens.LinkResolver.
var _ policylens.LinkResolver = (*LinkResolver)(nil)

// LinkResolver finds a policy link with a cascade of heuristics. The first
// heuristic that yields a usable link wins.
type LinkResolver struct {
	rules []rule
}

// NewLinkResolver compiles heuristics into a resolver. An empty list selects
// DefaultLinkHeuristics.
func NewLinkResolver(heuristics []policylens.Heuristic) (*LinkResolver, error) {
	if len(heuristics) == 0 {
		heuristics = DefaultLinkHeuristics()
	}
	rules, err := compileRules(heuristics)
	if err != nil {
		return nil, err
	}
	return &LinkResolver{rules: rules}, nil
}

// ResolveLink returns the absolute URL of the first usable match.
func (r *LinkResolver) ResolveLink(html string, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", policylens.Errorf(policylens.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := parseDocument(html)
	if err != nil {
		return "", err
	}

	for _, rule := range r.rules {
		var link string
		doc.FindMatcher(rule.matcher).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !rule.matches(rule.value(sel)) {
				return true
			}
			href, _ := sel.Attr("href")
			link = resolveURL(base, href)
			return link == ""
		})
		if link != "" {
			return link, nil
		}
	}
	return "", policylens.Errorf(policylens.ELINKNOTFOUND, "no privacy policy link found on %s", pageURL)
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string for hrefs that cannot lead to another HTTP page.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
