package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/policylens"
	"github.com/fwojciec/policylens/analyze"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	strategy := policylens.Strategy(c.Strategy)
	if strategy == "" {
		strategy = deps.Config.Strategy
	}
	if err := strategy.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
		return err
	}

	ctrl := analyze.NewController(deps.Analyzer, &pageHost{url: c.URL}, strategy)

	state := c.run(deps, ctrl, ctrl.Start(deps.Ctx))
	for attempt := 0; attempt < c.Retries && state.CanContinue && state.ErrorCode != policylens.ECANCELED; attempt++ {
		fmt.Fprintf(deps.Stderr, "%s Retrying (%d/%d)...\n", state.Message, attempt+1, c.Retries)
		run, err := ctrl.Continue(deps.Ctx)
		if err != nil {
			return err
		}
		state = c.run(deps, ctrl, run)
	}

	if state.Status != analyze.StatusCompleted {
		fmt.Fprintf(deps.Stderr, "error: %s\n", state.Message)
		return policylens.Errorf(state.ErrorCode, "%s", state.Message)
	}

	report, err := analyze.NewReport(state, strategy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
		return err
	}
	printReport(deps.Stdout, report)

	if c.Save {
		if err := saveReport(deps, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
			return err
		}
	}
	if deps.Exporter != nil {
		if err := deps.Exporter.CreateReport(deps.Ctx, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "\nWrote report to %s\n", c.Out)
	}

	return ctrl.Accept(deps.Ctx)
}

// run waits for a run, cancelling it on interrupt.
func (c *AnalyzeCmd) run(deps *Dependencies, ctrl *analyze.Controller, run *analyze.Run) analyze.State {
	select {
	case <-run.Done():
	case <-deps.Interrupt:
		fmt.Fprintln(deps.Stderr, "Cancelling...")
		ctrl.Cancel()
	}
	return run.Wait()
}

// saveReport stores the report and notes whether the policy changed since
// the page was last analyzed.
func saveReport(deps *Dependencies, report *policylens.Report) error {
	previous, err := deps.Reports.FindReports(deps.Ctx, policylens.ReportFilter{PageURL: &report.PageURL, Limit: 1})
	if err != nil {
		return err
	}
	if len(previous) > 0 {
		last := previous[0]
		if last.ContentHash == report.ContentHash {
			fmt.Fprintf(deps.Stdout, "\nPolicy unchanged since %s\n", last.CreatedAt.Format("2006-01-02"))
		} else {
			fmt.Fprintf(deps.Stdout, "\nPolicy changed since %s\n", last.CreatedAt.Format("2006-01-02"))
		}
	}

	if err := deps.Reports.CreateReport(deps.Ctx, report); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved report %s\n", report.ID)
	return nil
}

// pageHost serves a single page given on the command line.
type pageHost struct {
	url string
}

func (h *pageHost) ActivePageURL(_ context.Context) (string, error) {
	if h.url == "" {
		return "", policylens.Errorf(policylens.EINVALID, "page URL required")
	}
	return h.url, nil
}

func (h *pageHost) ClosePage(_ context.Context) error {
	return nil
}
