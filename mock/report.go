package mock

import (
	"context"

	"github.com/fwojciec/policylens"
)

var (
	_ policylens.ReportWriter  = (*ReportWriter)(nil)
	_ policylens.ReportService = (*ReportService)(nil)
)

// ReportWriter is a mock implementation of policylens.ReportWriter.
type ReportWriter struct {
	CreateReportFn func(ctx context.Context, report *policylens.Report) error
}

func (w *ReportWriter) CreateReport(ctx context.Context, report *policylens.Report) error {
	return w.CreateReportFn(ctx, report)
}

// ReportService is a mock implementation of policylens.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *policylens.Report) error
	FindReportByIDFn func(ctx context.Context, id string) (*policylens.Report, error)
	FindReportsFn    func(ctx context.Context, filter policylens.ReportFilter) ([]*policylens.Report, error)
	DeleteReportFn   func(ctx context.Context, id string) error
}

func (s *ReportService) CreateReport(ctx context.Context, report *policylens.Report) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*policylens.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter policylens.ReportFilter) ([]*policylens.Report, error) {
	return s.FindReportsFn(ctx, filter)
}

func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.DeleteReportFn(ctx, id)
}
