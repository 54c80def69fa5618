package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/policylens"
)

// rule is a compiled heuristic.
type rule struct {
	heuristic policylens.Heuristic
	matcher   cascadia.Selector
	pattern   *regexp.Regexp
}

func compileRules(heuristics []policylens.Heuristic) ([]rule, error) {
	rules := make([]rule, 0, len(heuristics))
	for _, h := range heuristics {
		m, err := cascadia.Compile(h.Selector)
		if err != nil {
			return nil, policylens.Errorf(policylens.EINVALID, "invalid selector %q: %v", h.Selector, err)
		}
		r := rule{heuristic: h, matcher: m}
		if h.Pattern != "" {
			re, err := regexp.Compile(h.Pattern)
			if err != nil {
				return nil, policylens.Errorf(policylens.EINVALID, "invalid pattern %q: %v", h.Pattern, err)
			}
			r.pattern = re
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// value returns the text the rule tests: the Attr value when set, else the
// trimmed text content.
func (r rule) value(sel *goquery.Selection) string {
	if r.heuristic.Attr != "" {
		v, _ := sel.Attr(r.heuristic.Attr)
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(sel.Text())
}

func (r rule) matches(value string) bool {
	return r.pattern == nil || r.pattern.MatchString(value)
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, policylens.Errorf(policylens.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

const footerLinks = "footer a[href], #footer a[href], .footer a[href], [role=contentinfo] a[href]"

// DefaultLinkHeuristics returns the link cascade, most specific first.
func DefaultLinkHeuristics() []policylens.Heuristic {
	return []policylens.Heuristic{
		{Selector: footerLinks, Pattern: `(?i)privacy`},
		{Selector: footerLinks, Pattern: `(?i)privacy`, Attr: "href"},
		{Selector: "a[href]", Pattern: `(?i)privacy\s+policy`},
		{Selector: "a[href]", Pattern: `(?i)privacy\s+notice`},
		{Selector: "a[href]", Pattern: `(?i)data\s+protection`},
		{Selector: "a[href]", Pattern: `(?i)privacy`},
		{Selector: "a[href]", Pattern: `(?i)privacy`, Attr: "href"},
	}
}

const (
	personalData = `(?i)personal\s+(data|information)`
	cookies      = `(?i)\bcookies?\b`
)

// DefaultContentHeuristics returns the content heuristics. Every heuristic
// contributes its matches.
func DefaultContentHeuristics() []policylens.Heuristic {
	return []policylens.Heuristic{
		{Selector: `[id*="privacy"]`},
		{Selector: `[class*="privacy"]`},
		{Selector: `[id*="policy"]`},
		{Selector: `[class*="policy"]`},
		{Selector: "title", Pattern: `(?i)privacy`},
		{Selector: "h1", Pattern: `(?i)privacy\s+(policy|notice|statement)`},
		{Selector: "h2", Pattern: `(?i)privacy\s+(policy|notice|statement)`},
		{Selector: "h3", Pattern: `(?i)privacy`},
		{Selector: `meta[name="description"]`, Attr: "content"},
		{Selector: `meta[property="og:description"]`, Attr: "content"},
		{Selector: "p", Pattern: personalData},
		{Selector: "p", Pattern: cookies},
		{Selector: "p", Pattern: `(?i)\bIP\s+address(es)?\b`},
		{Selector: "p", Pattern: `(?i)third[\s-]part(y|ies)`},
		{Selector: "p", Pattern: `(?i)data\s+(controller|processor|retention|subject)`},
		{Selector: "p", Pattern: `(?i)\b(GDPR|CCPA)\b`},
		{Selector: "p", Pattern: `(?i)opt[\s-]out`},
		{Selector: "li", Pattern: personalData},
		{Selector: "li", Pattern: cookies},
		{Selector: "td", Pattern: personalData},
		{Selector: `a[href*="privacy"] + p`},
		{Selector: `a[href*="privacy"] + div`},
		{Selector: `[id*="cookie"]`},
		{Selector: `[class*="cookie"]`},
		{Selector: `[id*="gdpr"], [class*="gdpr"]`},
	}
}
