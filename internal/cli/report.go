package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/johnqtcg/issueseed/internal/batch"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

// lowRemainingThreshold triggers the low budget warning in the summary.
const lowRemainingThreshold = 100

type palette struct {
	ok     lipgloss.Style
	failed lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
	title  lipgloss.Style
}

// newPalette styles output for w. Writers that are not terminals get plain text.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		ok:     r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failed: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("8")),
		title:  r.NewStyle().Bold(true),
	}
}

// consoleReporter prints engine progress events as they happen.
type consoleReporter struct {
	out    io.Writer
	styles palette
	now    func() time.Time
}

func newConsoleReporter(out io.Writer, now func() time.Time) *consoleReporter {
	return &consoleReporter{out: out, styles: newPalette(out), now: now}
}

func (r *consoleReporter) Report(event batch.Event) {
	switch event.Kind {
	case batch.EventItemStarted:
		r.printf("[%d/%d] Creating issue: %s\n", event.Index, event.Total, displayTitle(event.Title))
	case batch.EventIssueCreated:
		r.printf("  %s #%d %s\n", r.styles.ok.Render("OK"), event.Number, event.URL)
	case batch.EventIssueFailed:
		r.printf("  %s %s\n", r.styles.failed.Render("FAILED"), describeFailure(event.Failure))
	case batch.EventCommentCreated:
		r.printf("    comment %d/%d %s\n", event.Comment, event.CommentsTotal, r.styles.ok.Render("OK"))
	case batch.EventCommentFailed:
		r.printf("    comment %d/%d %s %s\n", event.Comment, event.CommentsTotal, r.styles.failed.Render("FAILED"), describeFailure(event.Failure))
	case batch.EventRateLimit:
		r.reportRateLimit(event)
	}
}

func (r *consoleReporter) reportRateLimit(event batch.Event) {
	switch event.Phase {
	case batch.PhaseStart:
		r.printf("Rate limit at start: %s\n", describeSnapshot(event.RateLimit, r.now()))
	case batch.PhaseEnd:
		r.printf("Rate limit at end: %s\n", describeSnapshot(event.RateLimit, r.now()))
	case batch.PhaseCall:
		r.printf("    %s\n", r.styles.muted.Render("rate limit: "+describeSnapshot(event.RateLimit, r.now())))
	}
}

func (r *consoleReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// writeSummary prints the final tally of a run.
func writeSummary(w io.Writer, repo gh.RepoRef, out batch.Outcome, now time.Time) error {
	styles := newPalette(w)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.title.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total:      %s\n", humanize.Comma(int64(out.Total())))
	fmt.Fprintf(&b, "  Succeeded:  %s\n", humanize.Comma(int64(out.SuccessCount)))
	fmt.Fprintf(&b, "  Failed:     %s\n", humanize.Comma(int64(out.FailCount)))
	if out.Canceled {
		fmt.Fprintf(&b, "  %s\n", styles.warn.Render("Canceled before all issues were submitted"))
	}
	fmt.Fprintf(&b, "  Elapsed:    %s\n", out.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "  Rate limit at start: %s\n", describeSnapshot(out.Start, now))
	fmt.Fprintf(&b, "  Rate limit at end:   %s\n", describeSnapshot(out.End, now))
	if consumed, ok := out.Consumed(); ok {
		fmt.Fprintf(&b, "  API calls consumed:  %s\n", humanize.Comma(int64(consumed)))
	}
	if out.End != nil && out.End.Remaining < lowRemainingThreshold {
		warning := fmt.Sprintf("WARNING: only %d API calls remaining, resets %s", out.End.Remaining, humanizeReset(*out.End, now))
		fmt.Fprintf(&b, "  %s\n", styles.warn.Render(warning))
	}

	if failed := out.Failed(); len(failed) > 0 {
		b.WriteString("  Failed issues:\n")
		for _, item := range failed {
			fmt.Fprintf(&b, "    [%d] %s: %s\n", item.Index, displayTitle(item.Title), describeFailure(item.Failure))
		}
	}
	if out.SuccessCount > 0 {
		fmt.Fprintf(&b, "  View issues at: %s\n", repo.IssuesURL())
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write summary output: %w", err)
	}
	return nil
}

func describeFailure(f *gh.Failure) string {
	if f == nil {
		return ""
	}
	detail := strings.Join(strings.Fields(f.Detail), " ")
	if !f.HasStatus() {
		return "detail=" + detail
	}
	return fmt.Sprintf("status=%d detail=%s", f.StatusCode, detail)
}

func describeSnapshot(s *gh.RateLimitSnapshot, now time.Time) string {
	if s == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%s, resets %s", s.String(), humanizeReset(*s, now))
}

func humanizeReset(s gh.RateLimitSnapshot, now time.Time) string {
	return humanize.RelTime(s.ResetTime(), now, "ago", "from now")
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
