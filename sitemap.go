package policylens

import (
	"context"
	"regexp"
)

// SitemapService discovers URLs from website sitemaps. The analyzer uses it
// to find a policy URL when the page itself carries no policy link.
type SitemapService interface {
	// DiscoverURLs finds URLs from a site's sitemap. It checks robots.txt
	// for sitemap directives and falls back to /sitemap.xml. Sitemap indexes
	// are resolved recursively. A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter includes or excludes URLs by pattern.
type URLFilter struct {
	// Include, if set, requires a URL to match at least one pattern.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. Applied after Include.
	Exclude []*regexp.Regexp
}

// PrivacyURLFilter matches URLs whose path mentions privacy or data
// protection, excluding common non-policy pages.
func PrivacyURLFilter() *URLFilter {
	return &URLFilter{
		Include: []*regexp.Regexp{regexp.MustCompile(`(?i)privacy|data-?protection|datenschutz`)},
		Exclude: []*regexp.Regexp{regexp.MustCompile(`(?i)\.(pdf|jpg|jpeg|png|gif|svg|zip)$|/(blog|news|tag)/`)},
	}
}

// Match reports whether url passes the filter. A nil filter passes every URL.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}
	return true
}
