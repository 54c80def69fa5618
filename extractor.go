package policylens

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// Extractor extracts the main content of a page, removing navigation,
// footers and other boilerplate. The analyzer uses it to title the policy
// page and as a fallback when no content heuristic matches.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
