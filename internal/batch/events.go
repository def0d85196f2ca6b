package batch

import gh "github.com/johnqtcg/issueseed/internal/github"

// EventKind names one progress notification of a run.
type EventKind string

const (
	// EventItemStarted is emitted before an issue is submitted.
	EventItemStarted EventKind = "item_started"
	// EventIssueCreated is emitted when an issue was created.
	EventIssueCreated EventKind = "issue_created"
	// EventIssueFailed is emitted when an issue could not be created.
	EventIssueFailed EventKind = "issue_failed"
	// EventCommentCreated is emitted when a comment was posted.
	EventCommentCreated EventKind = "comment_created"
	// EventCommentFailed is emitted when a comment could not be posted.
	EventCommentFailed EventKind = "comment_failed"
	// EventRateLimit carries a rate-limit observation.
	EventRateLimit EventKind = "rate_limit"
)

// Phase tells where a rate-limit observation was taken.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseEnd   Phase = "end"
	PhaseCall  Phase = "call"
)

// Event is one progress notification. Index is 1-based; Comment is the
// 1-based comment position and zero for issue-level events.
type Event struct {
	Kind  EventKind
	Phase Phase

	Index int
	Total int
	Title string

	Number int
	URL    string

	Comment       int
	CommentsTotal int

	Failure   *gh.Failure
	RateLimit *gh.RateLimitSnapshot
}

// Reporter receives progress events in emission order.
type Reporter interface {
	Report(event Event)
}

type discardReporter struct{}

func (discardReporter) Report(Event) {}
