package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnqtcg/issueseed/internal/config"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

var fixedNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

type fakeClient struct {
	issueOutcome func(call int, req gh.IssueRequest) gh.IssueOutcome
	probe        *gh.RateLimitSnapshot

	issues   []gh.IssueRequest
	comments []string
	probes   int
	closed   bool
}

func (f *fakeClient) CreateIssue(_ context.Context, req gh.IssueRequest) gh.IssueOutcome {
	f.issues = append(f.issues, req)
	if f.issueOutcome != nil {
		return f.issueOutcome(len(f.issues), req)
	}
	return gh.IssueOutcome{Number: len(f.issues)}
}

func (f *fakeClient) CreateComment(_ context.Context, _ int, body string) gh.CommentOutcome {
	f.comments = append(f.comments, body)
	return gh.CommentOutcome{}
}

func (f *fakeClient) Probe(context.Context) (gh.RateLimitSnapshot, bool) {
	f.probes++
	if f.probe == nil {
		return gh.RateLimitSnapshot{}, false
	}
	return *f.probe, true
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeClientFactory struct {
	client *fakeClient
	err    error
	gotCfg []config.Config
}

func (f *fakeClientFactory) New(cfg config.Config) (gh.Client, error) {
	f.gotCfg = append(f.gotCfg, cfg)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

type appHarness struct {
	dir     string
	factory *fakeClientFactory
	client  *fakeClient
	stdin   *strings.Reader
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	runner  Runner
}

const validSettings = `{
  "GitHubSettings": {"Token": "ghp_file", "RepoOwner": "octo", "RepoName": "repo"},
  "ApplicationSettings": {"ApiCallDelayMs": 0, "CommentDelayMs": 0}
}`

const twoIssues = `[
  {"title": "A", "labels": ["bug"], "comments": [{"body": "first"}]},
  {"title": "B"}
]`

func newHarness(t *testing.T, settings, issues, stdin string) *appHarness {
	t.Helper()

	dir := t.TempDir()
	if settings != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "appsettings.json"), []byte(settings), 0o644))
	}
	if issues != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "issues.json"), []byte(issues), 0o644))
	}

	h := &appHarness{
		dir:    dir,
		client: &fakeClient{},
		stdin:  strings.NewReader(stdin),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
	h.factory = &fakeClientFactory{client: h.client}
	h.runner = NewApp(AppDeps{
		Loader:        config.NewLoaderWithEnv(func(string) string { return "" }),
		ClientFactory: h.factory,
		Stdin:         h.stdin,
		Stdout:        h.stdout,
		Stderr:        h.stderr,
		Now:           func() time.Time { return fixedNow },
		Sleep:         func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
		SearchDirs:    []string{dir},
	})
	return h
}

func (h *appHarness) run(args ...string) int {
	return h.runner.Run(context.Background(), args)
}
