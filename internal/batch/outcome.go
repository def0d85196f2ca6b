package batch

import (
	"time"

	gh "github.com/johnqtcg/issueseed/internal/github"
)

// CommentResult is the outcome of one comment of a created issue.
type CommentResult struct {
	// Position is 1-based within the issue's comments.
	Position int
	Failure  *gh.Failure
}

// OK reports whether the comment was posted.
func (r CommentResult) OK() bool {
	return r.Failure == nil
}

// ItemResult stores one submitted issue and its comments.
type ItemResult struct {
	Index  int
	Title  string
	Number int
	URL    string

	Failure *gh.Failure

	Comments []CommentResult
	// CommentsSkipped counts comments never sent because the run was canceled.
	CommentsSkipped int
}

// Created reports whether the issue was created.
func (r ItemResult) Created() bool {
	return r.Failure == nil
}

// CommentFailures returns the number of comments that were sent and rejected.
func (r ItemResult) CommentFailures() int {
	n := 0
	for _, c := range r.Comments {
		if !c.OK() {
			n++
		}
	}
	return n
}

// Outcome is the tally of one run.
// SuccessCount+FailCount always equals len(Items).
type Outcome struct {
	SuccessCount int
	FailCount    int

	// Start and End are nil when the budget could not be read.
	Start *gh.RateLimitSnapshot
	End   *gh.RateLimitSnapshot

	Items    []ItemResult
	Canceled bool
	Elapsed  time.Duration
}

// Consumed returns how many calls the run spent according to the two snapshots.
func (o Outcome) Consumed() (int, bool) {
	if o.Start == nil || o.End == nil {
		return 0, false
	}
	return o.Start.Remaining - o.End.Remaining, true
}

// Total returns the number of submitted items.
func (o Outcome) Total() int {
	return len(o.Items)
}

// Failed returns the results of items that were not created.
func (o Outcome) Failed() []ItemResult {
	var out []ItemResult
	for _, item := range o.Items {
		if !item.Created() {
			out = append(out, item)
		}
	}
	return out
}
