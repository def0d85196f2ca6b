// Package batch submits a list of issues and their comments one call at a time.
package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	gh "github.com/johnqtcg/issueseed/internal/github"
	"github.com/johnqtcg/issueseed/internal/input"
)

// ErrMissingAPI indicates the engine was built without an API client.
var ErrMissingAPI = errors.New("batch engine requires an issue creator and a rate-limit prober")

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner submits a batch and returns its tally. It never fails as a whole.
type Runner interface {
	Run(ctx context.Context, issues []input.Issue) Outcome
}

// Deps defines engine collaborators. API and Prober are required.
type Deps struct {
	API      gh.IssueCreator
	Prober   gh.RateLimitProber
	Reporter Reporter
	Logger   *slog.Logger
	Sleep    SleepFunc
	Now      func() time.Time
}

// Options tunes one run.
type Options struct {
	Repo gh.RepoRef
	// ItemDelay separates consecutive issues; it is not applied after the last one.
	ItemDelay time.Duration
	// CommentDelay separates consecutive comment calls of one issue.
	CommentDelay time.Duration
	// ShowRateLimits emits a rate_limit event for every call that advertised one.
	ShowRateLimits bool
}

type engine struct {
	api      gh.IssueCreator
	prober   gh.RateLimitProber
	reporter Reporter
	logger   *slog.Logger
	sleep    SleepFunc
	now      func() time.Time
	opts     Options
}

// NewEngine creates a batch runner.
func NewEngine(deps Deps, opts Options) (Runner, error) {
	if deps.API == nil || deps.Prober == nil {
		return nil, ErrMissingAPI
	}

	e := &engine{
		api:      deps.API,
		prober:   deps.Prober,
		reporter: deps.Reporter,
		logger:   deps.Logger,
		sleep:    deps.Sleep,
		now:      deps.Now,
		opts:     opts,
	}
	e.setDefaults()
	return e, nil
}

func (e *engine) setDefaults() {
	if e.reporter == nil {
		e.reporter = discardReporter{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.sleep == nil {
		e.sleep = sleepContext
	}
	if e.now == nil {
		e.now = time.Now
	}
}

// Run probes the budget, submits every issue in order and probes again.
// Cancellation stops the run between calls; a call already sent always
// completes and is counted.
func (e *engine) Run(ctx context.Context, issues []input.Issue) Outcome {
	started := e.now()
	callCtx := context.WithoutCancel(ctx)
	total := len(issues)

	e.logger.Info("batch started", "repo", e.opts.Repo.String(), "issues", total)

	out := Outcome{Items: make([]ItemResult, 0, total)}
	out.Start = e.probe(callCtx, PhaseStart)

	for i, issue := range issues {
		if ctx.Err() != nil {
			out.Canceled = true
			break
		}

		result := e.submit(ctx, callCtx, i+1, total, issue)
		out.Items = append(out.Items, result)
		if result.Created() {
			out.SuccessCount++
		} else {
			out.FailCount++
		}
		if result.CommentsSkipped > 0 {
			out.Canceled = true
			break
		}

		if i == total-1 {
			break
		}
		if err := e.pause(ctx, e.opts.ItemDelay); err != nil {
			out.Canceled = true
			break
		}
	}

	out.End = e.probe(callCtx, PhaseEnd)
	out.Elapsed = e.now().Sub(started)

	e.logger.Info(
		"batch finished",
		"succeeded", out.SuccessCount,
		"failed", out.FailCount,
		"canceled", out.Canceled,
		"elapsed", out.Elapsed,
	)
	return out
}

func (e *engine) submit(ctx, callCtx context.Context, index, total int, issue input.Issue) ItemResult {
	result := ItemResult{Index: index, Title: issue.Title}
	e.reporter.Report(Event{Kind: EventItemStarted, Index: index, Total: total, Title: issue.Title})

	created := e.api.CreateIssue(callCtx, input.ToIssueRequest(issue))
	e.observe(index, total, 0, created.RateLimit)
	if !created.Created() {
		result.Failure = created.Failure
		e.logger.Debug("create issue failed", "index", index, "status", created.Failure.StatusCode, "detail", created.Failure.Detail)
		e.reporter.Report(Event{
			Kind:    EventIssueFailed,
			Index:   index,
			Total:   total,
			Title:   issue.Title,
			Failure: created.Failure,
		})
		return result
	}

	result.Number = created.Number
	result.URL = created.HTMLURL
	if result.URL == "" {
		result.URL = e.opts.Repo.IssueURL(created.Number)
	}
	e.logger.Debug("issue created", "index", index, "number", result.Number, "url", result.URL)
	e.reporter.Report(Event{
		Kind:          EventIssueCreated,
		Index:         index,
		Total:         total,
		Title:         issue.Title,
		Number:        result.Number,
		URL:           result.URL,
		CommentsTotal: len(issue.Comments),
	})

	e.postComments(ctx, callCtx, &result, total, issue.Comments)
	return result
}

func (e *engine) postComments(ctx, callCtx context.Context, result *ItemResult, total int, comments []input.Comment) {
	for i, comment := range comments {
		if ctx.Err() != nil {
			result.CommentsSkipped = len(comments) - i
			return
		}

		position := i + 1
		posted := e.api.CreateComment(callCtx, result.Number, comment.Body)
		e.observe(result.Index, total, position, posted.RateLimit)
		result.Comments = append(result.Comments, CommentResult{Position: position, Failure: posted.Failure})

		event := Event{
			Kind:          EventCommentCreated,
			Index:         result.Index,
			Total:         total,
			Title:         result.Title,
			Number:        result.Number,
			URL:           result.URL,
			Comment:       position,
			CommentsTotal: len(comments),
		}
		if !posted.OK() {
			event.Kind = EventCommentFailed
			event.Failure = posted.Failure
			e.logger.Debug("create comment failed", "number", result.Number, "comment", position, "detail", posted.Failure.Error())
		} else {
			e.logger.Debug("comment created", "number", result.Number, "comment", position)
		}
		e.reporter.Report(event)

		if position == len(comments) {
			return
		}
		if err := e.pause(ctx, e.opts.CommentDelay); err != nil {
			result.CommentsSkipped = len(comments) - position
			return
		}
	}
}

func (e *engine) probe(ctx context.Context, phase Phase) *gh.RateLimitSnapshot {
	var snapshot *gh.RateLimitSnapshot
	if s, ok := e.prober.Probe(ctx); ok {
		snapshot = &s
		e.logger.Debug("rate limit probed", "phase", string(phase), "limit", s.Limit, "remaining", s.Remaining, "reset", s.Reset)
	} else {
		e.logger.Debug("rate limit unavailable", "phase", string(phase))
	}
	e.reporter.Report(Event{Kind: EventRateLimit, Phase: phase, RateLimit: snapshot})
	return snapshot
}

func (e *engine) observe(index, total, comment int, snapshot *gh.RateLimitSnapshot) {
	if !e.opts.ShowRateLimits || snapshot == nil {
		return
	}
	e.reporter.Report(Event{
		Kind:      EventRateLimit,
		Phase:     PhaseCall,
		Index:     index,
		Total:     total,
		Comment:   comment,
		RateLimit: snapshot,
	})
}

func (e *engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return e.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
