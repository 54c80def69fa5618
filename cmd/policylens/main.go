package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/policylens"
	"github.com/fwojciec/policylens/analyze"
	"github.com/fwojciec/policylens/fs"
	"github.com/fwojciec/policylens/gemini"
	"github.com/fwojciec/policylens/goquery"
	"github.com/fwojciec/policylens/htmltomarkdown"
	plhttp "github.com/fwojciec/policylens/http"
	"github.com/fwojciec/policylens/openai"
	"github.com/fwojciec/policylens/readability"
	"github.com/fwojciec/policylens/rod"
	plslog "github.com/fwojciec/policylens/slog"
	"github.com/fwojciec/policylens/sqlite"
	"github.com/fwojciec/policylens/trafilatura"
	plviper "github.com/fwojciec/policylens/viper"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine.
	_ = godotenv.Load()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	m := NewMain()
	m.Interrupt = interrupts

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// DBPath overrides the configured database path. Set before calling Run().
	DBPath string

	// Interrupt cancels a running analysis.
	Interrupt <-chan os.Signal

	// SQLite database used by the report service.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Interrupt: m.Interrupt,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("policylens"),
		kong.Description("Find, summarize and score website privacy policies."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'policylens --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := plviper.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: check %s or the POLICYLENS_* environment\n", configName(cli.Config))
		return fmt.Errorf("failed to load config: %s", policylens.ErrorMessage(err))
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cli.Verbose)
	defer m.Close()

	switch kongCtx.Command() {
	case "analyze <url>":
		if err := m.wireAnalyze(deps, &cli.Analyze, cli.Verbose); err != nil {
			return err
		}
	case "serve":
		generator, err := newGenerator(ctx, cfg)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: set GEMINI_API_KEY or OPENAI_API_KEY for the configured provider")
			return err
		}
		deps.Generator = plslog.NewLoggingGenerator(generator, deps.Logger)
	}

	if needsDB(kongCtx.Command(), &cli.Analyze) {
		if err := m.openDB(deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(deps *Dependencies) error {
	path := m.DBPath
	if path == "" {
		path = deps.Config.Database
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: set POLICYLENS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.Reports = sqlite.NewReportService(m.DB)
	return nil
}

// wireAnalyze builds the analysis pipeline from the configuration.
func (m *Main) wireAnalyze(deps *Dependencies, cmd *AnalyzeCmd, verbose bool) error {
	cfg, logger := deps.Config, deps.Logger

	var fetcher policylens.Fetcher
	if cmd.Browser {
		f, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = plhttp.NewFetcher()
	}
	m.closers = append(m.closers, fetcher)

	links, err := goquery.NewLinkResolver(cfg.LinkHeuristics)
	if err != nil {
		return fmt.Errorf("invalid link heuristics: %s", policylens.ErrorMessage(err))
	}
	content, err := goquery.NewContentExtractor(cfg.ContentHeuristics)
	if err != nil {
		return fmt.Errorf("invalid content heuristics: %s", policylens.ErrorMessage(err))
	}

	backend := newBackend(cfg, logger)

	var sitemaps policylens.SitemapService = plhttp.NewSitemapService(nil)
	if verbose {
		fetcher = plslog.NewLoggingFetcher(fetcher, logger)
		sitemaps = plslog.NewLoggingSitemapService(sitemaps, logger)
	}

	var extractor policylens.Extractor = trafilatura.NewExtractor()
	if cfg.Extractor == policylens.ExtractorReadability {
		extractor = readability.NewExtractor()
	}

	a := &analyze.Analyzer{
		Fetcher:        fetcher,
		Links:          links,
		Content:        content,
		Backend:        backend,
		Sitemaps:       sitemaps,
		Extractor:      extractor,
		Converter:      htmltomarkdown.NewConverter(),
		RateLimiter:    analyze.NewDomainLimiter(cfg.RequestsPerSecond),
		MaxChunkLength: cfg.MaxChunkLength,
		TopK:           cfg.TopK,
		Concurrency:    cfg.Concurrency,
		Log: func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		},
		Progress: func(s analyze.Stage) {
			logger.Debug("stage", "name", string(s))
		},
	}
	if tc, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
		a.TokenCounter = tc
	} else {
		logger.Warn("token counting disabled", "err", err)
	}

	deps.Analyzer = plslog.NewLoggingPageAnalyzer(a, logger)
	if cmd.Out != "" {
		deps.Exporter = fs.NewWriter(cmd.Out)
	}
	return nil
}

// tokenizerModel is the local tokenizer used for report token counts,
// whichever provider serves inference.
const tokenizerModel = "gemini-2.5-flash"

// newBackend returns the backend selected by cfg.Mode.
func newBackend(cfg *policylens.Config, logger *slog.Logger) policylens.Backend {
	if cfg.Mode == policylens.BackendRemote {
		return plslog.NewLoggingRemoteBackend(plhttp.NewAnalysisClient(cfg.RemoteURL, nil), logger)
	}

	models := &analyze.CachedModels{
		Cache:        analyze.NewModelCache(),
		SummarizerID: cfg.SummaryModel,
		ClassifierID: cfg.ClassifierModel,
	}

	switch cfg.Provider {
	case policylens.ProviderOpenAI:
		client := openai.NewClient("", cfg.BaseURL)
		models.LoadSummarizer = func(_ context.Context, id string) (policylens.Summarizer, error) {
			return openai.NewSummarizer(client, id), nil
		}
		models.LoadClassifier = func(_ context.Context, id string) (policylens.Classifier, error) {
			return openai.NewClassifier(client, id), nil
		}
	default:
		// The Gemini client is created on first acquisition so that a
		// missing key surfaces as a failed, continuable run.
		var (
			mu     sync.Mutex
			client *genai.Client
		)
		connect := func(ctx context.Context) (*genai.Client, error) {
			mu.Lock()
			defer mu.Unlock()
			if client == nil {
				c, err := gemini.NewClient(ctx, "")
				if err != nil {
					return nil, err
				}
				client = c
			}
			return client, nil
		}
		models.LoadSummarizer = func(ctx context.Context, id string) (policylens.Summarizer, error) {
			c, err := connect(ctx)
			if err != nil {
				return nil, err
			}
			return gemini.NewSummarizer(c, id), nil
		}
		models.LoadClassifier = func(ctx context.Context, id string) (policylens.Classifier, error) {
			c, err := connect(ctx)
			if err != nil {
				return nil, err
			}
			return gemini.NewClassifier(c, id), nil
		}
	}

	return plslog.NewLoggingModelBackend(models, logger)
}

// newGenerator returns the generator backing the serve command.
func newGenerator(ctx context.Context, cfg *policylens.Config) (policylens.Generator, error) {
	if cfg.Provider == policylens.ProviderOpenAI {
		return openai.NewSummarizer(openai.NewClient("", cfg.BaseURL), cfg.SummaryModel), nil
	}
	client, err := gemini.NewClient(ctx, "")
	if err != nil {
		return nil, err
	}
	return gemini.NewSummarizer(client, cfg.SummaryModel), nil
}

func needsDB(command string, analyzeCmd *AnalyzeCmd) bool {
	switch command {
	case "history", "history <url>", "show <id>", "delete <id>":
		return true
	case "analyze <url>":
		return analyzeCmd.Save
	}
	return false
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func configName(path string) string {
	if path == "" {
		return plviper.ConfigName + ".yaml"
	}
	return path
}
