package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/policylens"
	main "github.com/fwojciec/policylens/cmd/policylens"
	"github.com/fwojciec/policylens/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists reports with ID, date, score, and page", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportsFn: func(_ context.Context, f policylens.ReportFilter) ([]*policylens.Report, error) {
				assert.Nil(t, f.PageURL)
				assert.Equal(t, 20, f.Limit)
				return []*policylens.Report{
					{ID: "rep-1", PageURL: "https://a.example/", Score: &policylens.AggregatedScore{Overall: 5}, CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
					{ID: "rep-2", PageURL: "https://b.example/", CreatedAt: time.Date(2025, 1, 16, 11, 30, 0, 0, time.UTC)},
				}, nil
			},
		}

		err := (&main.HistoryCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "rep-1  2025-01-15 10:00  🟩 5")
		assert.Contains(t, out, "https://a.example/")
		assert.Contains(t, out, "rep-2  2025-01-16 11:30  -")
	})

	t.Run("filters by page", func(t *testing.T) {
		t.Parallel()

		var filter policylens.ReportFilter
		deps, _, _ := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportsFn: func(_ context.Context, f policylens.ReportFilter) ([]*policylens.Report, error) {
				filter = f
				return nil, nil
			},
		}

		err := (&main.HistoryCmd{URL: pageURL, Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, filter.PageURL)
		assert.Equal(t, pageURL, *filter.PageURL)
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportsFn: func(_ context.Context, _ policylens.ReportFilter) ([]*policylens.Report, error) {
				return []*policylens.Report{}, nil
			},
		}

		require.NoError(t, (&main.HistoryCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No reports found")
	})

	t.Run("returns error when lookup fails", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportsFn: func(_ context.Context, _ policylens.ReportFilter) ([]*policylens.Report, error) {
				return nil, errors.New("database locked")
			},
		}

		require.Error(t, (&main.HistoryCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the report", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportByIDFn: func(_ context.Context, id string) (*policylens.Report, error) {
				return &policylens.Report{
					ID:        id,
					PageURL:   pageURL,
					PolicyURL: policyURL,
					Summary:   "They sell data.",
					Strategy:  policylens.StrategyMeanAll,
					Score: &policylens.AggregatedScore{
						Categories: []policylens.CategoryScore{{Name: "Transparency", Score: 1}},
						Overall:    1,
					},
				}, nil
			},
		}

		err := (&main.ShowCmd{ID: "rep-1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "They sell data.")
		assert.Contains(t, stdout.String(), "🟥 Transparency")
	})

	t.Run("reports missing ID", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Reports = &mock.ReportService{
			FindReportByIDFn: func(_ context.Context, _ string) (*policylens.Report, error) {
				return nil, policylens.Errorf(policylens.ENOTFOUND, "report not found")
			},
		}

		err := (&main.ShowCmd{ID: "missing"}).Run(deps)

		assert.Equal(t, policylens.ENOTFOUND, policylens.ErrorCode(err))
		assert.Contains(t, stderr.String(), `report "missing" not found`)
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)

		err := (&main.DeleteCmd{ID: "rep-1"}).Run(deps)

		assert.Equal(t, policylens.EINVALID, policylens.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes the report", func(t *testing.T) {
		t.Parallel()

		var deleted string
		deps, stdout, _ := newDeps(nil)
		deps.Reports = &mock.ReportService{
			DeleteReportFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		err := (&main.DeleteCmd{ID: "rep-1", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "rep-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted report rep-1")
	})

	t.Run("reports missing ID", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Reports = &mock.ReportService{
			DeleteReportFn: func(_ context.Context, _ string) error {
				return policylens.Errorf(policylens.ENOTFOUND, "report not found")
			},
		}

		err := (&main.DeleteCmd{ID: "missing", Force: true}).Run(deps)

		assert.Equal(t, policylens.ENOTFOUND, policylens.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})
}
