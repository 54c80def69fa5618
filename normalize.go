package policylens

import "regexp"

// pronounRewrites turns the policy author's first-person voice into third
// person, so a summary reads as commentary about the site.
var pronounRewrites = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\bwe\b`), "They"},
	{regexp.MustCompile(`(?i)\bour\b`), "there"},
}

// NormalizeSummary rewrites "we" to "They" and "our" to "there".
// Matching is case-insensitive and whole-word only.
func NormalizeSummary(summary string) string {
	for _, r := range pronounRewrites {
		summary = r.re.ReplaceAllString(summary, r.with)
	}
	return summary
}
