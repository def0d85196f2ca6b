// Package converter renders batch outcomes as markdown run reports.
package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johnqtcg/issueseed/internal/batch"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

// ErrMissingRepository indicates a report without a target repository.
var ErrMissingRepository = errors.New("report repository is empty")

// Report is the input of one rendered run report.
type Report struct {
	Repo        gh.RepoRef
	GeneratedAt time.Time
	IssuesFile  string
	Outcome     batch.Outcome
}

// RenderOptions controls markdown rendering behavior.
type RenderOptions struct {
	IncludeComments bool
}

// Renderer converts a run report into markdown output.
type Renderer interface {
	Render(ctx context.Context, report Report, opts RenderOptions) ([]byte, error)
}

type renderer struct{}

// NewRenderer creates a markdown renderer instance.
func NewRenderer() Renderer {
	return &renderer{}
}

func (*renderer) Render(ctx context.Context, report Report, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	if report.Repo.Owner == "" || report.Repo.Name == "" {
		return nil, fmt.Errorf("render markdown: %w", ErrMissingRepository)
	}

	frontMatter, err := renderFrontMatter(report)
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatter)
	fmt.Fprintf(&b, "# Issue upload report: %s\n\n", report.Repo.String())
	b.WriteString(renderSummarySection(report))
	b.WriteString("\n")
	b.WriteString(renderRateLimitSection(report.Outcome))
	b.WriteString("\n")
	b.WriteString(renderItemsSection(report.Outcome, opts.IncludeComments))

	b.WriteString("\n## References\n")
	fmt.Fprintf(&b, "- Issues: %s\n", report.Repo.IssuesURL())

	return []byte(b.String()), nil
}

func renderSummarySection(report Report) string {
	out := report.Outcome

	var b strings.Builder
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- total: %d\n", out.Total())
	fmt.Fprintf(&b, "- succeeded: %d\n", out.SuccessCount)
	fmt.Fprintf(&b, "- failed: %d\n", out.FailCount)
	if out.Canceled {
		b.WriteString("- canceled: true\n")
	}
	fmt.Fprintf(&b, "- elapsed: %s\n", out.Elapsed.Round(time.Millisecond))
	if report.IssuesFile != "" {
		fmt.Fprintf(&b, "- issues_file: %s\n", report.IssuesFile)
	}
	return b.String()
}

func renderRateLimitSection(out batch.Outcome) string {
	var b strings.Builder

	b.WriteString("## Rate Limit\n\n")
	if out.Start == nil && out.End == nil {
		b.WriteString("Rate limit information unavailable.\n")
		return b.String()
	}

	b.WriteString("| Phase | Used | Limit | Usage | Remaining | Reset (UTC) |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	writeRateLimitRow(&b, "start", out.Start)
	writeRateLimitRow(&b, "end", out.End)

	if consumed, ok := out.Consumed(); ok {
		fmt.Fprintf(&b, "\nCalls consumed: %d\n", consumed)
	}
	return b.String()
}

func writeRateLimitRow(b *strings.Builder, phase string, s *gh.RateLimitSnapshot) {
	if s == nil {
		fmt.Fprintf(b, "| %s | - | - | - | - | - |\n", phase)
		return
	}
	fmt.Fprintf(b, "| %s | %d | %d | %.1f%% | %d | %s |\n", phase, s.Used(), s.Limit, s.UsagePercent(), s.Remaining, formatReset(*s))
}

func renderItemsSection(out batch.Outcome, includeComments bool) string {
	var b strings.Builder

	b.WriteString("## Items\n")
	if len(out.Items) == 0 {
		b.WriteString("\nNo issues were submitted.\n")
		return b.String()
	}

	for _, item := range out.Items {
		fmt.Fprintf(&b, "\n### %d. %s\n", item.Index, displayTitle(item.Title))
		if !item.Created() {
			b.WriteString("- status: failed\n")
			fmt.Fprintf(&b, "- error: %s\n", singleLine(item.Failure.Error()))
			continue
		}

		b.WriteString("- status: created\n")
		fmt.Fprintf(&b, "- number: #%d\n", item.Number)
		fmt.Fprintf(&b, "- url: %s\n", item.URL)

		total := len(item.Comments) + item.CommentsSkipped
		if total == 0 {
			continue
		}
		failed := item.CommentFailures()
		fmt.Fprintf(&b, "- comments: %d posted, %d failed, %d skipped\n", len(item.Comments)-failed, failed, item.CommentsSkipped)
		if !includeComments {
			continue
		}
		for _, c := range item.Comments {
			if c.OK() {
				fmt.Fprintf(&b, "  - comment %d: ok\n", c.Position)
				continue
			}
			fmt.Fprintf(&b, "  - comment %d: failed (%s)\n", c.Position, singleLine(c.Failure.Error()))
		}
	}
	return b.String()
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return singleLine(title)
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
