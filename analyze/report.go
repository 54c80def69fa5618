package analyze

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/policylens"
)

// ComputeHash returns the hex xxhash of content. Reports use it to tell
// whether a policy changed between analyses.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// NewReport builds a report from a completed state. Returns EINVALID if the
// state holds no analysis.
func NewReport(state State, strategy policylens.Strategy) (*policylens.Report, error) {
	if state.Status != StatusCompleted || state.Analysis == nil {
		return nil, policylens.Errorf(policylens.EINVALID, "no completed analysis to report")
	}

	a := state.Analysis
	report := &policylens.Report{
		PageURL:   a.PageURL,
		PolicyURL: a.PolicyURL,
		Title:     a.Title,
		Summary:   state.Summary,
		Strategy:  strategy,
		Score:     state.Score,
		Tokens:    a.Tokens,
	}
	if a.Content != nil {
		report.ContentHash = ComputeHash(a.Content.Text)
	}
	return report, nil
}
