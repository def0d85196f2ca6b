package input

import gh "github.com/johnqtcg/issueseed/internal/github"

// ToIssueRequest converts an input record to the create-issue payload.
// Comments are not part of issue creation and are dropped.
func ToIssueRequest(issue Issue) gh.IssueRequest {
	req := gh.IssueRequest{
		Title:     issue.Title,
		Body:      issue.Body,
		Labels:    copyStrings(issue.Labels),
		Assignees: copyStrings(issue.Assignees),
	}
	if issue.Milestone != nil {
		milestone := *issue.Milestone
		req.Milestone = &milestone
	}
	return req
}

// ToIssueRequests maps every record in order.
func ToIssueRequests(issues []Issue) []gh.IssueRequest {
	out := make([]gh.IssueRequest, 0, len(issues))
	for _, issue := range issues {
		out = append(out, ToIssueRequest(issue))
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
