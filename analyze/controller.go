package analyze

import (
	"context"
	"sync"

	"github.com/fwojciec/policylens"
)

// Status is the lifecycle status of the controller.
type Status string

// Controller statuses.
const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// State is what the presentation layer renders.
type State struct {
	Status  Status
	RunID   int
	PageURL string

	// Message is the summary on completion and a user-facing explanation
	// otherwise.
	Message   string
	Summary   string
	PolicyURL string

	// Score is nil when no classification results were available, as in
	// remote mode.
	Score    *policylens.AggregatedScore
	Analysis *policylens.Analysis

	// ErrorCode is the policylens error code of a cancelled or failed run.
	ErrorCode   string
	CanContinue bool
}

// Run is one analysis attempt.
type Run struct {
	ID int

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	state  State
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its final state. The state
// of a superseded run is never published by the Controller.
func (r *Run) Wait() State {
	<-r.done
	return r.state
}

// Controller owns the run lifecycle:
//
//	Idle -> Running -> Completed | Cancelled | Failed
//
// Cancelled and Failed runs can be continued, which starts over from the
// beginning. Completed runs are accepted or rejected, returning to Idle.
// At most one run is active; starting a new one cancels the previous one.
type Controller struct {
	Analyzer policylens.PageAnalyzer
	Host     policylens.Host
	Strategy policylens.Strategy

	// OnChange, if set, receives every published state in order. It must not
	// start or continue runs.
	OnChange func(State)

	mu      sync.Mutex
	state   State
	run     *Run
	nextID  int
	version uint64

	notifyMu sync.Mutex
	notified uint64
}

// NewController returns an idle controller.
func NewController(analyzer policylens.PageAnalyzer, host policylens.Host, strategy policylens.Strategy) *Controller {
	if strategy == "" {
		strategy = policylens.StrategyMeanAll
	}
	return &Controller{
		Analyzer: analyzer,
		Host:     host,
		Strategy: strategy,
		state:    State{Status: StatusIdle},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start cancels any active run and starts a new one for the host's active
// page. The returned run finishes when the analysis does.
func (c *Controller) Start(ctx context.Context) *Run {
	c.mu.Lock()
	run, s, v := c.start(ctx)
	c.mu.Unlock()

	c.notify(s, v)
	go c.execute(run)
	return run
}

// Continue restarts a cancelled or failed run from scratch.
// Returns ECONFLICT in any other state.
func (c *Controller) Continue(ctx context.Context) (*Run, error) {
	c.mu.Lock()
	if !c.state.CanContinue {
		status := c.state.Status
		c.mu.Unlock()
		return nil, policylens.Errorf(policylens.ECONFLICT, "cannot continue a run that is %s", status)
	}
	run, s, v := c.start(ctx)
	c.mu.Unlock()

	c.notify(s, v)
	go c.execute(run)
	return run, nil
}

// Cancel signals the active run to stop. It reports whether a run was
// running. The run moves to Cancelled once it observes the cancellation.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil || c.state.Status != StatusRunning {
		return false
	}
	c.run.cancel()
	return true
}

// Accept keeps the analyzed page and returns to Idle.
// Returns ECONFLICT unless the last run completed.
func (c *Controller) Accept(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status != StatusCompleted {
		defer c.mu.Unlock()
		return policylens.Errorf(policylens.ECONFLICT, "nothing to accept")
	}
	s, v := c.setState(State{Status: StatusIdle})
	c.mu.Unlock()

	c.notify(s, v)
	return nil
}

// Reject closes the analyzed page through the host and returns to Idle.
// Returns ECONFLICT unless the last run completed. If the host fails to
// close the page the state is unchanged.
func (c *Controller) Reject(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status != StatusCompleted {
		defer c.mu.Unlock()
		return policylens.Errorf(policylens.ECONFLICT, "nothing to reject")
	}
	if err := c.Host.ClosePage(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	s, v := c.setState(State{Status: StatusIdle})
	c.mu.Unlock()

	c.notify(s, v)
	return nil
}

// start supersedes the active run with a new one. It must be called with
// c.mu held; the caller launches the run after publishing its state.
func (c *Controller) start(ctx context.Context) (*Run, State, uint64) {
	if c.run != nil {
		c.run.cancel()
	}

	c.nextID++
	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{ID: c.nextID, ctx: runCtx, cancel: cancel, done: make(chan struct{})}
	c.run = run

	s, v := c.setState(State{Status: StatusRunning, RunID: run.ID, Message: "Analyzing privacy policy..."})
	return run, s, v
}

func (c *Controller) execute(run *Run) {
	defer close(run.done)
	defer run.cancel()

	run.state = c.analyze(run.ctx, run.ID)

	c.mu.Lock()
	if c.run != run {
		c.mu.Unlock()
		return
	}
	s, v := c.setState(run.state)
	c.mu.Unlock()

	c.notify(s, v)
}

func (c *Controller) analyze(ctx context.Context, runID int) State {
	pageURL, err := c.Host.ActivePageURL(ctx)
	if err != nil {
		return failure(ctx, runID, "", err)
	}

	analysis, err := c.Analyzer.Analyze(ctx, pageURL)
	if err != nil {
		return failure(ctx, runID, pageURL, err)
	}

	score, err := policylens.Aggregate(c.Strategy, analysis.Results())
	if err != nil && policylens.ErrorCode(err) != policylens.EAGGREGATIONEMPTY {
		return failure(ctx, runID, pageURL, err)
	}

	return State{
		Status:    StatusCompleted,
		RunID:     runID,
		PageURL:   pageURL,
		Message:   analysis.Summary,
		Summary:   analysis.Summary,
		PolicyURL: analysis.PolicyURL,
		Score:     score,
		Analysis:  analysis,
	}
}

// failure turns a run error into a continuable state. A done context wins
// over whatever error the pipeline returned.
func failure(ctx context.Context, runID int, pageURL string, err error) State {
	code := policylens.ErrorCode(err)
	if ctx.Err() != nil {
		code = policylens.ECANCELED
	}

	s := State{
		Status:      StatusFailed,
		RunID:       runID,
		PageURL:     pageURL,
		ErrorCode:   code,
		CanContinue: true,
	}

	switch code {
	case policylens.ECANCELED:
		s.Status = StatusCancelled
		s.Message = "Analysis cancelled."
	case policylens.ELINKNOTFOUND:
		s.Message = "No privacy policy link found on this page."
	case policylens.EEXTRACTIONEMPTY:
		s.Message = "No relevant content found on the privacy policy page."
	case policylens.EFETCH:
		s.Message = "Could not load the page: " + policylens.ErrorMessage(err)
	case policylens.EBACKEND:
		s.Message = "Analysis failed: " + policylens.ErrorMessage(err)
	default:
		s.Message = policylens.ErrorMessage(err)
	}
	return s
}

// setState must be called with c.mu held.
func (c *Controller) setState(s State) (State, uint64) {
	c.version++
	c.state = s
	return s, c.version
}

// notify delivers s unless a newer state was already delivered.
func (c *Controller) notify(s State, version uint64) {
	if c.OnChange == nil {
		return
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.notified {
		return
	}
	c.notified = version
	c.OnChange(s)
}
