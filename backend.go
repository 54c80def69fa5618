package policylens

import "context"

// Summarizer produces a natural-language summary of a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Generator completes a raw prompt. The analysis endpoint server is backed
// by a Generator since its requests arrive already wrapped in a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClassifyOptions configures a classification call.
type ClassifyOptions struct {
	// TopK limits the result to the K highest scoring labels.
	// Zero returns every label.
	TopK int
}

// Classifier scores a text against the score categories.
type Classifier interface {
	// Classify returns one label per category, highest score first.
	Classify(ctx context.Context, text string, opts ClassifyOptions) (ClassificationResult, error)
}

// BackendMode identifies an analysis backend variant.
type BackendMode string

// Backend modes.
const (
	// BackendModels drives separate summarization and classification models.
	BackendModels BackendMode = "models"

	// BackendRemote posts the whole policy to an analysis endpoint and gets
	// back a single opaque analysis. No category scores are available.
	BackendRemote BackendMode = "remote"
)

// Backend is an analysis backend. Concrete variants are ModelBackend and
// RemoteBackend; the orchestrator must not assume classification exists.
type Backend interface {
	Mode() BackendMode
}

// ModelBackend exposes summarize and classify capabilities. Acquisition may
// be slow (model loading, client setup) and may be cancelled.
type ModelBackend interface {
	Backend
	AcquireSummarizer(ctx context.Context) (Summarizer, error)
	AcquireClassifier(ctx context.Context) (Classifier, error)
}

// RemoteBackend analyzes a whole policy in a single call.
type RemoteBackend interface {
	Backend
	AnalyzePolicy(ctx context.Context, text string) (string, error)
}

// Analysis is the outcome of analyzing one page.
type Analysis struct {
	PageURL   string            `json:"pageUrl"`
	PolicyURL string            `json:"policyUrl"`
	Title     string            `json:"title,omitempty"`
	Content   *ExtractedContent `json:"content"`
	Summary   string            `json:"summary"`
	Tokens    int               `json:"tokens,omitempty"`

	// Classifications is empty in remote mode.
	Classifications []ChunkClassification `json:"classifications"`
}

// Results returns the classification results without their chunks.
func (a *Analysis) Results() []ClassificationResult {
	results := make([]ClassificationResult, 0, len(a.Classifications))
	for _, c := range a.Classifications {
		results = append(results, c.Result)
	}
	return results
}

// PageAnalyzer runs the analysis pipeline for one page.
type PageAnalyzer interface {
	// Analyze returns ECANCELED if ctx is cancelled, EFETCH, ELINKNOTFOUND
	// or EEXTRACTIONEMPTY if the policy could not be located, and EBACKEND
	// if inference failed.
	Analyze(ctx context.Context, pageURL string) (*Analysis, error)
}

// Host gives access to the environment hosting the analyzed page.
type Host interface {
	// ActivePageURL returns the URL of the page to analyze.
	ActivePageURL(ctx context.Context) (string, error)

	// ClosePage removes the active page, e.g. after the user rejects it.
	ClosePage(ctx context.Context) error
}
