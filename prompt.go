package policylens

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SummaryPrompt wraps policy text in the summarization instruction.
func SummaryPrompt(policy string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI privacy policy analyzer. Analyze the following privacy policy based on the criteria below:\n")
	sb.WriteString("    1. Summarize the privacy policy in 2-3 sentences.\n")
	sb.WriteString("### Privacy Policy Content: \n")
	sb.WriteString(policy)
	sb.WriteString("\n")
	return sb.String()
}

// ScorePrompt builds the classification instruction for one chunk.
// The model is asked for a JSON object mapping each category to a score
// between 0 and 1.
func ScorePrompt(chunk string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following privacy policy chunk and rate it on each category ")
	sb.WriteString("with a score between 0 and 1, where 1 is best.\n")
	fmt.Fprintf(&sb, "Categories: %s.\n", strings.Join(Categories, ", "))
	sb.WriteString("Respond with a JSON object mapping each category name to its score and nothing else.\n")
	fmt.Fprintf(&sb, "Chunk: %s", chunk)
	return sb.String()
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseLabelScores parses a model response of the form {"Clarity": 0.8, ...}
// into a ClassificationResult sorted by descending score. Scores are clamped
// to [0,1]. Text around the JSON object (code fences, prose) is ignored.
func ParseLabelScores(raw string, opts ClassifyOptions) (ClassificationResult, error) {
	obj := jsonObjectRe.FindString(raw)
	if obj == "" {
		return nil, Errorf(EBACKEND, "classifier response contains no JSON object")
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(obj), &scores); err != nil {
		return nil, Errorf(EBACKEND, "invalid classifier response: %v", err)
	}
	if len(scores) == 0 {
		return nil, Errorf(EBACKEND, "classifier returned no labels")
	}

	result := make(ClassificationResult, 0, len(scores))
	for name, score := range scores {
		result = append(result, Label{Name: name, Score: clampUnit(score)})
	}
	return TopK(result, opts.TopK), nil
}

// TopK sorts labels by descending score (ties by name) and keeps the first k.
// A k of zero or less keeps every label.
func TopK(result ClassificationResult, k int) ClassificationResult {
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Name < result[j].Name
	})
	if k > 0 && k < len(result) {
		result = result[:k]
	}
	return result
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
