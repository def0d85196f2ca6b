package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	goGithub "github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"
)

// tokenType makes oauth2 emit "Authorization: token <PAT>".
const tokenType = "token"

type restClient struct {
	client *goGithub.Client
	repo   RepoRef

	// owned is nil when the caller supplied the HTTP client.
	owned *http.Transport
}

var _ Client = (*restClient)(nil)

func newRESTClient(cfg Config) (*restClient, error) {
	var owned *http.Transport
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		owned = http.DefaultTransport.(*http.Transport).Clone()
		httpClient = &http.Client{Transport: owned, Timeout: cfg.Timeout}
	}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: tokenType})
		baseTransport := httpClient.Transport
		if baseTransport == nil {
			baseTransport = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: ts,
				Base:   baseTransport,
			},
			Timeout: httpClient.Timeout,
		}
	}

	client := goGithub.NewClient(httpClient)
	client.UserAgent = cfg.UserAgent

	baseURL := cfg.RESTBaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse REST base URL %q: %w", cfg.RESTBaseURL, err)
	}
	client.BaseURL = parsed

	return &restClient{client: client, repo: cfg.Repo, owned: owned}, nil
}

func (c *restClient) CreateIssue(ctx context.Context, req IssueRequest) IssueOutcome {
	issue, resp, err := c.client.Issues.Create(uncheckedContext(ctx), c.repo.Owner, c.repo.Name, toGitHubIssueRequest(req))
	out := IssueOutcome{RateLimit: rateLimitFromResponse(resp)}

	var accepted *goGithub.AcceptedError
	if errors.As(err, &accepted) {
		issue, err = decodeAcceptedIssue(accepted.Raw)
	}
	if err != nil {
		out.Failure = failureFromError("create issue", resp, err)
		return out
	}
	if issue.GetNumber() == 0 {
		out.Failure = &Failure{Detail: "create issue: response has no issue number"}
		return out
	}

	out.Number = issue.GetNumber()
	out.HTMLURL = issue.GetHTMLURL()
	return out
}

func (c *restClient) CreateComment(ctx context.Context, number int, body string) CommentOutcome {
	_, resp, err := c.client.Issues.CreateComment(uncheckedContext(ctx), c.repo.Owner, c.repo.Name, number, &goGithub.IssueComment{
		Body: goGithub.Ptr(body),
	})
	out := CommentOutcome{RateLimit: rateLimitFromResponse(resp)}

	var accepted *goGithub.AcceptedError
	if err != nil && !errors.As(err, &accepted) {
		out.Failure = failureFromError("create comment", resp, err)
	}
	return out
}

// uncheckedContext disables go-github's client-side rate-limit checks so every
// call reaches the server and is judged by the server's answer alone.
func uncheckedContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, goGithub.BypassRateLimitCheck, true)
}

// Close releases idle connections held by the owned transport.
func (c *restClient) Close() error {
	if c.owned != nil {
		c.owned.CloseIdleConnections()
	}
	return nil
}

func toGitHubIssueRequest(req IssueRequest) *goGithub.IssueRequest {
	labels := req.Labels
	if labels == nil {
		labels = []string{}
	}
	assignees := req.Assignees
	if assignees == nil {
		assignees = []string{}
	}

	return &goGithub.IssueRequest{
		Title:     goGithub.Ptr(req.Title),
		Body:      goGithub.Ptr(req.Body),
		Labels:    &labels,
		Assignees: &assignees,
		Milestone: req.Milestone,
	}
}

func decodeAcceptedIssue(raw []byte) (*goGithub.Issue, error) {
	issue := new(goGithub.Issue)
	if len(raw) == 0 {
		return issue, nil
	}
	if err := json.Unmarshal(raw, issue); err != nil {
		return nil, fmt.Errorf("decode accepted issue: %w", err)
	}
	return issue, nil
}

// failureFromError maps a go-github error to a Failure. Responses outside 2xx keep
// their status and raw body; anything else is reported without a status.
func failureFromError(op string, resp *goGithub.Response, err error) *Failure {
	if resp != nil && resp.Response != nil && !isSuccessStatus(resp.StatusCode) {
		return &Failure{
			StatusCode: resp.StatusCode,
			Detail:     responseDetail(resp.Response, err),
		}
	}
	return &Failure{Detail: fmt.Sprintf("%s: %v", op, err)}
}

// responseDetail returns the response body verbatim. go-github re-populates the body
// of error responses after inspecting it, so it is still readable here. An empty or
// unreadable body falls back to the error text.
func responseDetail(resp *http.Response, err error) string {
	if resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil && strings.TrimSpace(string(body)) != "" {
			return string(body)
		}
	}
	return err.Error()
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code <= 299
}
