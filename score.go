package policylens

import (
	"math"
)

// Score categories.
const (
	CategoryClarity           = "Clarity"
	CategoryTransparency      = "Transparency"
	CategoryAccessibility     = "Accessibility"
	CategorySecurity          = "Security"
	CategoryComprehensiveness = "Comprehensiveness"
)

// Categories lists the score categories in display order.
var Categories = []string{
	CategoryClarity,
	CategoryTransparency,
	CategoryAccessibility,
	CategorySecurity,
	CategoryComprehensiveness,
}

// CategoryLabels maps raw classifier labels to category names.
// Labels not listed here are used verbatim.
var CategoryLabels = map[string]string{
	"LABEL_0": CategoryClarity,
	"LABEL_1": CategoryTransparency,
	"LABEL_2": CategoryAccessibility,
	"LABEL_3": CategorySecurity,
	"LABEL_4": CategoryComprehensiveness,
}

// CategoryName returns the category for a classifier label.
func CategoryName(label string) string {
	if name, ok := CategoryLabels[label]; ok {
		return name
	}
	return label
}

// Score bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Label is one category score produced by a classifier, in [0,1].
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationResult holds one label per category for a chunk or document.
type ClassificationResult []Label

// ChunkClassification pairs a chunk with its classification.
type ChunkClassification struct {
	Chunk  string               `json:"chunk"`
	Result ClassificationResult `json:"result"`
}

// Strategy selects how classification results are reduced to a score.
type Strategy string

// Aggregation strategies.
const (
	// StrategyMeanAll averages every label of every result.
	StrategyMeanAll Strategy = "mean"

	// StrategyMaxLabel keeps only the winning label(s) of each result.
	StrategyMaxLabel Strategy = "max-label"
)

// Validate returns an error if the strategy is unknown.
func (s Strategy) Validate() error {
	switch s {
	case StrategyMeanAll, StrategyMaxLabel:
		return nil
	}
	return Errorf(EINVALID, "unknown aggregation strategy %q", s)
}

// Accumulator is a running (sum, count) of rescaled scores for a category.
type Accumulator struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// Mean returns Sum/Count.
func (a Accumulator) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// CategoryAccumulator accumulates rescaled scores per category. It only grows.
type CategoryAccumulator struct {
	order  []string
	values map[string]*Accumulator
}

// NewCategoryAccumulator returns an empty accumulator.
func NewCategoryAccumulator() *CategoryAccumulator {
	return &CategoryAccumulator{values: make(map[string]*Accumulator)}
}

// Add records a rescaled score for a category.
func (a *CategoryAccumulator) Add(category string, rescaled float64) {
	acc, ok := a.values[category]
	if !ok {
		acc = &Accumulator{}
		a.values[category] = acc
		a.order = append(a.order, category)
	}
	acc.Sum += rescaled
	acc.Count++
}

// Get returns the accumulated value for a category.
func (a *CategoryAccumulator) Get(category string) (Accumulator, bool) {
	acc, ok := a.values[category]
	if !ok {
		return Accumulator{}, false
	}
	return *acc, true
}

// Categories returns accumulated categories in order of first appearance.
func (a *CategoryAccumulator) Categories() []string {
	return append([]string(nil), a.order...)
}

// Len returns the number of accumulated categories.
func (a *CategoryAccumulator) Len() int {
	return len(a.order)
}

// CategoryScore is the final score of one category.
type CategoryScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AggregatedScore is the final per-category and overall score.
type AggregatedScore struct {
	Categories []CategoryScore `json:"categories"`
	Overall    int             `json:"overall"`
}

// Rescale maps a raw score in [0,1] onto [1,5].
func Rescale(score float64) float64 {
	return MinScore + (MaxScore-MinScore)*score
}

// RoundScore rounds to the nearest integer and clamps to [1,5].
func RoundScore(v float64) int {
	n := int(math.Round(v))
	if n < MinScore {
		return MinScore
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}

// Accumulate folds classification results into per-category accumulators
// using the given strategy.
func Accumulate(strategy Strategy, results []ClassificationResult) *CategoryAccumulator {
	acc := NewCategoryAccumulator()
	for _, result := range results {
		labels := []Label(result)
		if strategy == StrategyMaxLabel {
			labels = maxLabels(result)
		}
		for _, l := range labels {
			acc.Add(CategoryName(l.Name), Rescale(l.Score))
		}
	}
	return acc
}

// maxLabels returns the label(s) with the highest score. Ties keep all.
func maxLabels(result ClassificationResult) []Label {
	var best []Label
	for _, l := range result {
		switch {
		case len(best) == 0 || l.Score > best[0].Score:
			best = []Label{l}
		case l.Score == best[0].Score:
			best = append(best, l)
		}
	}
	return best
}

// Aggregate reduces classification results to an AggregatedScore.
//
// Each category score is the rounded mean of its rescaled values. With
// StrategyMeanAll the overall score is the rounded mean of the unrounded
// category means; with StrategyMaxLabel it is the rounded mean of the final
// category scores. Categories that never accumulated a value are excluded.
//
// Returns EAGGREGATIONEMPTY when there is nothing to aggregate. Callers treat
// that as "no score" rather than a failure.
func Aggregate(strategy Strategy, results []ClassificationResult) (*AggregatedScore, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	acc := Accumulate(strategy, results)
	if acc.Len() == 0 {
		return nil, Errorf(EAGGREGATIONEMPTY, "no classification results to aggregate")
	}

	score := &AggregatedScore{Categories: make([]CategoryScore, 0, acc.Len())}
	var sum float64
	for _, name := range acc.Categories() {
		a, _ := acc.Get(name)
		rounded := RoundScore(a.Mean())
		score.Categories = append(score.Categories, CategoryScore{Name: name, Score: rounded})

		if strategy == StrategyMaxLabel {
			sum += float64(rounded)
		} else {
			sum += a.Mean()
		}
	}
	score.Overall = RoundScore(sum / float64(acc.Len()))

	return score, nil
}
