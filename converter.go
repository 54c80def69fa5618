package policylens

// Converter converts clean HTML into plain readable text (Markdown).
type Converter interface {
	Convert(html string) (string, error)
}
