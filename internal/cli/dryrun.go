package cli

import (
	"encoding/json"
	"fmt"
	"io"

	gh "github.com/johnqtcg/issueseed/internal/github"
	"github.com/johnqtcg/issueseed/internal/input"
)

type dryRunItem struct {
	Index    int             `json:"index"`
	Request  gh.IssueRequest `json:"request"`
	Comments []string        `json:"comments"`
}

// writeDryRun prints the create-issue payloads and comment bodies that a run would send.
func writeDryRun(w io.Writer, issues []input.Issue) error {
	requests := input.ToIssueRequests(issues)
	items := make([]dryRunItem, 0, len(issues))
	for i, issue := range issues {
		comments := make([]string, 0, len(issue.Comments))
		for _, c := range issue.Comments {
			comments = append(comments, c.Body)
		}
		items = append(items, dryRunItem{
			Index:    i + 1,
			Request:  requests[i],
			Comments: comments,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("write dry run output: %w", err)
	}
	return nil
}
