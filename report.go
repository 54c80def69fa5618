package policylens

import (
	"context"
	"time"
)

// Report is a saved analysis of a page's privacy policy.
type Report struct {
	ID          string           `json:"id"`
	PageURL     string           `json:"pageUrl"`
	PolicyURL   string           `json:"policyUrl"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary"`
	ContentHash string           `json:"contentHash"`
	Strategy    Strategy         `json:"strategy"`
	Score       *AggregatedScore `json:"score,omitempty"`
	Tokens      int              `json:"tokens"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	if r.PageURL == "" {
		return Errorf(EINVALID, "report page URL required")
	}
	if r.PolicyURL == "" {
		return Errorf(EINVALID, "report policy URL required")
	}
	if r.Summary == "" {
		return Errorf(EINVALID, "report summary required")
	}
	return nil
}

// ReportWriter persists a report.
type ReportWriter interface {
	CreateReport(ctx context.Context, report *Report) error
}

// ReportService manages saved reports.
type ReportService interface {
	ReportWriter

	// FindReportByID returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports returns reports matching the filter, newest first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)

	// DeleteReport returns ENOTFOUND if the report does not exist.
	DeleteReport(ctx context.Context, id string) error
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	ID      *string `json:"id"`
	PageURL *string `json:"pageUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
