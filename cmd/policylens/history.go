package main

import (
	"fmt"

	"github.com/fwojciec/policylens"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := policylens.ReportFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.PageURL = &c.URL
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'policylens analyze --save' to create one.")
		return nil
	}

	for _, r := range reports {
		overall := "-"
		if r.Score != nil {
			overall = fmt.Sprintf("%s %d", emoji(r.Score.Overall), r.Score.Overall)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-5s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), overall, r.PageURL)
	}

	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	report, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		if policylens.ErrorCode(err) == policylens.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: report %q not found. Use 'policylens history' to see saved reports.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
		return err
	}

	printReport(deps.Stdout, report)
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return policylens.Errorf(policylens.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Reports.DeleteReport(deps.Ctx, c.ID); err != nil {
		if policylens.ErrorCode(err) == policylens.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: report %q not found. Use 'policylens history' to see saved reports.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", policylens.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted report %s\n", c.ID)
	return nil
}
