package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/policylens"
)

var scoreEmoji = [...]string{"🟥", "🟧", "🟨", "🟦", "🟩"}

// emoji returns the badge for a score in [1,5].
func emoji(score int) string {
	if score < policylens.MinScore || score > policylens.MaxScore {
		return "⬜"
	}
	return scoreEmoji[score-policylens.MinScore]
}

// printReport writes a human-readable report.
func printReport(w io.Writer, r *policylens.Report) {
	fmt.Fprintf(w, "Page:    %s\n", r.PageURL)
	fmt.Fprintf(w, "Policy:  %s\n", r.PolicyURL)
	if r.Title != "" {
		fmt.Fprintf(w, "Title:   %s\n", r.Title)
	}
	if r.Tokens > 0 {
		fmt.Fprintf(w, "Tokens:  %d\n", r.Tokens)
	}
	fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(r.Summary))

	if r.Score == nil {
		return
	}
	fmt.Fprintf(w, "\nScores (%s):\n", r.Strategy)
	for _, c := range r.Score.Categories {
		fmt.Fprintf(w, "  %s %-18s %d\n", emoji(c.Score), c.Name, c.Score)
	}
	fmt.Fprintf(w, "  %s %-18s %d\n", emoji(r.Score.Overall), "Overall", r.Score.Overall)
}
