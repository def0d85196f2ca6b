package github

import (
	"fmt"
	"time"
)

// RepoRef identifies the repository every request is issued against.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form of the repository.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// IssuesURL returns the web URL of the repository issue list.
func (r RepoRef) IssuesURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues", r.Owner, r.Name)
}

// IssueURL synthesizes the web URL of one issue.
func (r RepoRef) IssueURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", r.Owner, r.Name, number)
}

// IssueRequest is the create-issue payload sent on the wire.
// Labels and Assignees are always encoded as arrays; Milestone is omitted when nil.
type IssueRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
	Milestone *int     `json:"milestone,omitempty"`
}

// Failure describes one rejected or undeliverable request.
// StatusCode is zero when no HTTP response was received or the response could not be decoded.
type Failure struct {
	StatusCode int
	Detail     string
}

// Error renders the failure the same way HTTP status errors are rendered elsewhere.
func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.StatusCode == 0 {
		return f.Detail
	}
	return fmt.Sprintf("http status %d: %s", f.StatusCode, f.Detail)
}

// HasStatus reports whether the failure carries an HTTP status code.
func (f *Failure) HasStatus() bool {
	return f != nil && f.StatusCode != 0
}

// IssueOutcome is the result of one create-issue call.
type IssueOutcome struct {
	Number  int
	HTMLURL string
	Failure *Failure

	// RateLimit is the budget advertised on the response, if any.
	RateLimit *RateLimitSnapshot
}

// Created reports whether the issue was created.
func (o IssueOutcome) Created() bool {
	return o.Failure == nil
}

// CommentOutcome is the result of one create-comment call.
type CommentOutcome struct {
	Failure   *Failure
	RateLimit *RateLimitSnapshot
}

// OK reports whether the comment was created.
func (o CommentOutcome) OK() bool {
	return o.Failure == nil
}

// RateLimitSnapshot is an immutable rate-limit observation.
type RateLimitSnapshot struct {
	Limit     int
	Remaining int
	// Reset is the Unix epoch second at which the budget resets.
	Reset int64
}

// Used returns the number of calls already spent in the current window.
func (s RateLimitSnapshot) Used() int {
	return s.Limit - s.Remaining
}

// UsagePercent returns Used as a percentage of Limit.
func (s RateLimitSnapshot) UsagePercent() float64 {
	if s.Limit <= 0 {
		return 0
	}
	return float64(s.Used()) / float64(s.Limit) * 100
}

// ResetTime returns Reset as a time value.
func (s RateLimitSnapshot) ResetTime() time.Time {
	return time.Unix(s.Reset, 0)
}

// String returns a compact human-readable form.
func (s RateLimitSnapshot) String() string {
	return fmt.Sprintf("used %d/%d (%.1f%%), remaining %d", s.Used(), s.Limit, s.UsagePercent(), s.Remaining)
}
