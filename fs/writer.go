// Package fs writes analysis reports as Markdown files with YAML
// frontmatter, one file per analyzed page.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/policylens"
	"gopkg.in/yaml.v3"
)

var _ policylens.ReportWriter = (*Writer)(nil)

// URLToPath converts a page URL to a relative report path under its host.
// Example: https://example.com/shop/cart → example.com/shop/cart.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", policylens.Errorf(policylens.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", policylens.Errorf(policylens.EINVALID, "page URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path += ".md"
	}
	return filepath.Join(u.Host, filepath.FromSlash(path)), nil
}

type frontmatter struct {
	Page        string `yaml:"page"`
	Policy      string `yaml:"policy"`
	Title       string `yaml:"title,omitempty"`
	Analyzed    string `yaml:"analyzed"`
	Strategy    string `yaml:"strategy,omitempty"`
	Overall     *int   `yaml:"overall,omitempty"`
	ContentHash string `yaml:"content_hash,omitempty"`
}

// FormatReport renders a report as Markdown with YAML frontmatter.
func FormatReport(r *policylens.Report) (string, error) {
	fm := frontmatter{
		Page:        r.PageURL,
		Policy:      r.PolicyURL,
		Title:       r.Title,
		Analyzed:    r.CreatedAt.Format("2006-01-02"),
		Strategy:    string(r.Strategy),
		ContentHash: r.ContentHash,
	}
	if r.Score != nil {
		fm.Overall = &r.Score.Overall
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", policylens.Errorf(policylens.EINTERNAL, "encoding frontmatter: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n")

	if r.Score != nil {
		b.WriteString("\n## Scores\n\n")
		b.WriteString("| Category | Score |\n|---|---|\n")
		for _, c := range r.Score.Categories {
			fmt.Fprintf(&b, "| %s | %d |\n", c.Name, c.Score)
		}
		fmt.Fprintf(&b, "| **Overall** | **%d** |\n", r.Score.Overall)
	}
	return b.String(), nil
}

// Writer writes reports as Markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateReport writes the report to disk, replacing an earlier report for
// the same page.
func (w *Writer) CreateReport(_ context.Context, r *policylens.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(r.PageURL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}

	content, err := FormatReport(r)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0o644)
}
