package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fwojciec/policylens"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *policylens.Config

	Analyzer  policylens.PageAnalyzer
	Reports   policylens.ReportService
	Exporter  policylens.ReportWriter
	Generator policylens.Generator

	// Interrupt delivers SIGINT to a running analysis.
	Interrupt <-chan os.Signal
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"POLICYLENS_CONFIG" help:"Path to policylens.yaml"`
	Verbose bool   `short:"v" help:"Log pipeline steps to stderr"`

	Analyze AnalyzeCmd `cmd:"" help:"Analyze the privacy policy of a page"`
	History HistoryCmd `cmd:"" help:"List saved reports"`
	Show    ShowCmd    `cmd:"" help:"Show a saved report"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a saved report"`
	Serve   ServeCmd   `cmd:"" help:"Serve the remote analysis endpoint"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL      string `arg:"" help:"Page whose privacy policy is analyzed"`
	Strategy string `short:"s" help:"Score aggregation strategy (mean, max-label)"`
	Retries  int    `short:"r" default:"0" help:"Continue a failed run up to N times"`
	Browser  bool   `short:"b" help:"Render pages in a headless browser"`
	Save     bool   `help:"Save the report to the history database"`
	Out      string `short:"o" help:"Write the report as markdown under this directory"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" optional:"" help:"Only reports for this page"`
	Limit int    `short:"n" default:"20" help:"Maximum number of reports"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Report ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Report ID"`
	Force bool   `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":5000" help:"Listen address"`
}
