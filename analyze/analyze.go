// Package analyze orchestrates privacy policy analysis. It locates a page's
// policy, extracts the policy text, runs it through an analysis backend and
// drives the user-facing run lifecycle.
package analyze

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/policylens"
	"golang.org/x/sync/errgroup"
)

var _ policylens.PageAnalyzer = (*Analyzer)(nil)

// Stage identifies a step of the analysis pipeline.
type Stage string

// Pipeline stages, in order.
const (
	StageFetchPage   Stage = "fetch_page"
	StageResolveLink Stage = "resolve_link"
	StageFetchPolicy Stage = "fetch_policy"
	StageExtract     Stage = "extract"
	StageSummarize   Stage = "summarize"
	StageClassify    Stage = "classify"
)

// fallbackSelector names content recovered by the boilerplate extractor.
const fallbackSelector = "main-content"

// Analyzer runs the analysis pipeline for one page:
//
//  1. fetch the page and resolve its policy link
//  2. fetch the policy page and extract its content
//  3. summarize the whole policy
//  4. split it into chunks and classify each chunk
//  5. normalize the summary
//
// A RemoteBackend replaces steps 3 and 4 with a single call.
type Analyzer struct {
	Fetcher  policylens.Fetcher
	Links    policylens.LinkResolver
	Content  policylens.ContentExtractor
	Backend  policylens.Backend
	Sitemaps policylens.SitemapService // optional, used when no link is found

	// Extractor and Converter are optional. When both are set they recover
	// the policy text if no content heuristic matches. Extractor alone
	// supplies the policy page title.
	Extractor policylens.Extractor
	Converter policylens.Converter

	TokenCounter policylens.TokenCounter // optional
	RateLimiter  policylens.DomainLimiter // optional

	RetryDelays    []time.Duration
	MaxChunkLength int
	TopK           int
	Concurrency    int

	// Log, if set, receives retry and fallback notices.
	Log LogFunc

	// Progress, if set, is called as each stage starts.
	Progress func(Stage)
}

// Analyze runs the pipeline. The context is checked before every step;
// once it is done Analyze returns its error, which policylens.ErrorCode
// reports as ECANCELED.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string) (*policylens.Analysis, error) {
	if a.Backend == nil {
		return nil, policylens.Errorf(policylens.EINTERNAL, "analyzer has no backend")
	}

	a.stage(StageFetchPage)
	pageHTML, err := a.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	a.stage(StageResolveLink)
	policyURL, err := a.resolveLink(ctx, pageHTML, pageURL)
	if err != nil {
		return nil, err
	}

	policyHTML := pageHTML
	if policyURL != pageURL {
		a.stage(StageFetchPolicy)
		if policyHTML, err = a.fetch(ctx, policyURL); err != nil {
			return nil, err
		}
	}

	a.stage(StageExtract)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title, content, err := a.extract(policyHTML)
	if err != nil {
		return nil, err
	}

	analysis := &policylens.Analysis{
		PageURL:         pageURL,
		PolicyURL:       policyURL,
		Title:           title,
		Content:         content,
		Classifications: []policylens.ChunkClassification{},
	}
	if a.TokenCounter != nil {
		if tokens, err := a.TokenCounter.CountTokens(ctx, content.Text); err == nil {
			analysis.Tokens = tokens
		}
	}

	switch b := a.Backend.(type) {
	case policylens.RemoteBackend:
		a.stage(StageSummarize)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := b.AnalyzePolicy(ctx, content.Text)
		if err != nil {
			return nil, backendError(ctx, err)
		}
		analysis.Summary = summary
	case policylens.ModelBackend:
		if err := a.runModels(ctx, b, analysis); err != nil {
			return nil, err
		}
	default:
		return nil, policylens.Errorf(policylens.EINTERNAL, "unsupported backend mode %q", a.Backend.Mode())
	}

	analysis.Summary = policylens.NormalizeSummary(analysis.Summary)
	return analysis, nil
}

func (a *Analyzer) runModels(ctx context.Context, b policylens.ModelBackend, analysis *policylens.Analysis) error {
	text := analysis.Content.Text

	a.stage(StageSummarize)
	if err := ctx.Err(); err != nil {
		return err
	}
	summarizer, err := b.AcquireSummarizer(ctx)
	if err != nil {
		return backendError(ctx, err)
	}
	summary, err := summarizer.Summarize(ctx, text)
	if err != nil {
		return backendError(ctx, err)
	}
	analysis.Summary = summary

	a.stage(StageClassify)
	if err := ctx.Err(); err != nil {
		return err
	}
	classifier, err := b.AcquireClassifier(ctx)
	if err != nil {
		return backendError(ctx, err)
	}

	maxLength := a.MaxChunkLength
	if maxLength <= 0 {
		maxLength = policylens.DefaultMaxChunkLength
	}
	chunks := policylens.Split(text, maxLength)

	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]policylens.ChunkClassification, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := classifier.Classify(gctx, chunk, policylens.ClassifyOptions{TopK: a.TopK})
			if err != nil {
				return err
			}
			results[i] = policylens.ChunkClassification{Chunk: chunk, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return backendError(ctx, err)
	}

	analysis.Classifications = results
	return nil
}

// fetch retrieves url through the rate limiter with retries. Failures are
// reported as EFETCH unless ctx is done.
func (a *Analyzer) fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fetchFn := func(ctx context.Context, u string) (string, error) {
		if a.RateLimiter != nil {
			if err := a.RateLimiter.Wait(ctx, hostOf(u)); err != nil {
				return "", err
			}
		}
		return a.Fetcher.Fetch(ctx, u)
	}

	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	html, err := FetchWithRetry(ctx, rawURL, fetchFn, a.Log, delays)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if policylens.ErrorCode(err) == policylens.EFETCH {
			return "", err
		}
		return "", policylens.Errorf(policylens.EFETCH, "failed to fetch %s: %v", rawURL, err)
	}
	return html, nil
}

// resolveLink finds the policy URL on the page, falling back to the site's
// sitemap when the page carries no recognizable link.
func (a *Analyzer) resolveLink(ctx context.Context, html, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	policyURL, err := a.Links.ResolveLink(html, pageURL)
	if err == nil {
		return policyURL, nil
	}
	if policylens.ErrorCode(err) != policylens.ELINKNOTFOUND {
		return "", policylens.Errorf(policylens.EFETCH, "failed to parse %s: %s", pageURL, policylens.ErrorMessage(err))
	}
	if a.Sitemaps == nil {
		return "", err
	}

	urls, serr := a.Sitemaps.DiscoverURLs(ctx, pageURL, policylens.PrivacyURLFilter())
	if serr != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		a.logf("sitemap fallback for %s failed: %v", pageURL, serr)
		return "", err
	}
	if len(urls) == 0 {
		return "", err
	}

	a.logf("no policy link on %s, using %s from sitemap", pageURL, urls[0])
	return urls[0], nil
}

// extract collects the policy content. When no heuristic matches and a
// boilerplate extractor is configured, its main content is used instead.
func (a *Analyzer) extract(html string) (string, *policylens.ExtractedContent, error) {
	content, err := a.Content.ExtractContent(html)
	if err != nil {
		return "", nil, policylens.Errorf(policylens.EFETCH, "failed to parse policy page: %s", policylens.ErrorMessage(err))
	}

	var main *policylens.ExtractResult
	if a.Extractor != nil {
		if main, err = a.Extractor.Extract(html); err != nil {
			main = nil
		}
	}

	if content.Empty() && main != nil && a.Converter != nil {
		if md, err := a.Converter.Convert(main.ContentHTML); err == nil && strings.TrimSpace(md) != "" {
			a.logf("no content heuristic matched, using main content")
			content = policylens.NewExtractedContent([]policylens.MatchedElement{
				{Selector: fallbackSelector, Content: strings.TrimSpace(md)},
			})
		}
	}

	if content.Empty() {
		return "", nil, policylens.Errorf(policylens.EEXTRACTIONEMPTY, "%s", policylens.NoRelevantContent)
	}

	var title string
	if main != nil {
		title = main.Title
	}
	return title, content, nil
}

func (a *Analyzer) stage(s Stage) {
	if a.Progress != nil {
		a.Progress(s)
	}
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.Log != nil {
		a.Log(format, args...)
	}
}

// backendError reports err as EBACKEND unless ctx is done or err already
// carries an application code.
func backendError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return policylens.Errorf(policylens.EBACKEND, "inference timed out: %v", err)
	}
	var e *policylens.Error
	if errors.As(err, &e) {
		return err
	}
	return policylens.Errorf(policylens.EBACKEND, "inference failed: %v", err)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
