package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIssueSendsHeadersAndWireBody(t *testing.T) {
	t.Parallel()

	var got map[string]any
	client := newTestClient(t, "token-123", func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/octo/repo/issues", r.URL.Path)
		assert.Equal(t, "token token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "issueseed-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got = decodeBody(t, r)

		return mustJSONResponse(t, http.StatusCreated, map[string]any{
			"number":   12,
			"html_url": "https://github.com/octo/repo/issues/12",
		}), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A", Labels: []string{"bug"}})
	require.True(t, out.Created(), "failure: %v", out.Failure)
	assert.Equal(t, 12, out.Number)
	assert.Equal(t, "https://github.com/octo/repo/issues/12", out.HTMLURL)

	assert.Equal(t, "A", got["title"])
	assert.Equal(t, "", got["body"])
	assert.Equal(t, []any{"bug"}, got["labels"])
	assert.Equal(t, []any{}, got["assignees"])
	assert.NotContains(t, got, "milestone")
}

func TestCreateIssueSendsMilestoneWhenSet(t *testing.T) {
	t.Parallel()

	milestone := 4
	var got map[string]any
	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		got = decodeBody(t, r)
		return mustJSONResponse(t, http.StatusCreated, map[string]any{"number": 1}), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A", Milestone: &milestone})
	require.True(t, out.Created())
	assert.EqualValues(t, 4, got["milestone"])
}

func TestCreateIssueMissingHTMLURLStillCreated(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		return textHTTPResponse(http.StatusCreated, `{"NUMBER":42}`), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
	require.True(t, out.Created())
	assert.Equal(t, 42, out.Number)
	assert.Empty(t, out.HTMLURL)
}

func TestCreateIssueRejectionKeepsStatusAndRawBody(t *testing.T) {
	t.Parallel()

	const body = `{"message":"Validation Failed","errors":[{"resource":"Issue","code":"missing_field","field":"title"}]}`
	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		return textHTTPResponse(http.StatusUnprocessableEntity, body), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{})
	require.False(t, out.Created())
	assert.Equal(t, http.StatusUnprocessableEntity, out.Failure.StatusCode)
	assert.Equal(t, body, out.Failure.Detail)
}

func TestCreateIssueRejectionDetailIsVerbatim(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		body string
	}{
		{name: "surrounding whitespace", body: "\n  {\"message\": \"Validation Failed\"}\n\n"},
		{name: "large body", body: `{"message":"` + strings.Repeat("x", 40*1024) + `"}`},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
				return textHTTPResponse(http.StatusUnprocessableEntity, tc.body), nil
			})

			out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
			require.False(t, out.Created())
			assert.Equal(t, tc.body, out.Failure.Detail)
		})
	}
}

func TestCreateIssueEmptyRejectionBodyFallsBackToError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		return textHTTPResponse(http.StatusBadGateway, "  "), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
	require.False(t, out.Created())
	assert.Equal(t, http.StatusBadGateway, out.Failure.StatusCode)
	assert.Contains(t, out.Failure.Detail, "502")
}

func TestCreateIssueTransportFailureHasNoStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
	require.False(t, out.Created())
	assert.False(t, out.Failure.HasStatus())
	assert.Contains(t, out.Failure.Detail, "connection refused")
	assert.Nil(t, out.RateLimit)
}

func TestCreateIssueMalformedSuccessBodyFails(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "no number", body: `{"title":"A"}`},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
				return textHTTPResponse(http.StatusCreated, tc.body), nil
			})

			out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
			require.False(t, out.Created())
			assert.False(t, out.Failure.HasStatus())
			assert.NotEmpty(t, out.Failure.Detail)
		})
	}
}

func TestCreateIssueReportsResponseRateLimit(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		resp := mustJSONResponse(t, http.StatusCreated, map[string]any{"number": 3})
		return withRateLimitHeaders(resp, "5000", "4990", "1700000000"), nil
	})

	out := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
	require.NotNil(t, out.RateLimit)
	assert.Equal(t, RateLimitSnapshot{Limit: 5000, Remaining: 4990, Reset: 1700000000}, *out.RateLimit)
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name       string
		status     int
		wantOK     bool
		wantStatus int
	}{
		{name: "created", status: http.StatusCreated, wantOK: true},
		{name: "server error", status: http.StatusInternalServerError, wantOK: false, wantStatus: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound, wantOK: false, wantStatus: http.StatusNotFound},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got map[string]any
			client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "/repos/octo/repo/issues/7/comments", r.URL.Path)
				assert.Equal(t, "token tok", r.Header.Get("Authorization"))
				got = decodeBody(t, r)
				return mustJSONResponse(t, tc.status, map[string]any{"id": 1, "message": "x"}), nil
			})

			out := client.CreateComment(context.Background(), 7, "c1")
			assert.Equal(t, tc.wantOK, out.OK())
			assert.Equal(t, map[string]any{"body": "c1"}, got)
			if !tc.wantOK {
				assert.Equal(t, tc.wantStatus, out.Failure.StatusCode)
			}
		})
	}
}

func TestNewClientRequiresRepository(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Token: "tok"})
	assert.ErrorIs(t, err, ErrMissingRepository)
}

func TestNewClientOwnsTransport(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Repo: RepoRef{Owner: "octo", Name: "repo"}})
	require.NoError(t, err)

	rc, ok := client.(*restClient)
	require.True(t, ok)
	assert.NotNil(t, rc.owned)
	assert.Equal(t, "https://api.github.com/", rc.client.BaseURL.String())
	assert.NoError(t, client.Close())
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.WithDefaults()
	assert.Equal(t, DefaultRESTBaseURL, cfg.RESTBaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestCreateCallsIgnoreLocalRateLimitState(t *testing.T) {
	t.Parallel()

	reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	calls := 0
	client := newTestClient(t, "tok", func(r *http.Request) (*http.Response, error) {
		calls++
		resp := mustJSONResponse(t, http.StatusCreated, map[string]any{"number": calls, "id": calls})
		resp.Header.Set("X-RateLimit-Limit", "60")
		resp.Header.Set("X-RateLimit-Remaining", "0")
		resp.Header.Set("X-RateLimit-Reset", reset)
		return resp, nil
	})

	first := client.CreateIssue(context.Background(), IssueRequest{Title: "A"})
	second := client.CreateIssue(context.Background(), IssueRequest{Title: "B"})
	comment := client.CreateComment(context.Background(), second.Number, "c")

	assert.True(t, first.Created())
	assert.True(t, second.Created())
	assert.True(t, comment.OK())
	assert.Equal(t, 3, calls)
	require.NotNil(t, second.RateLimit)
	assert.Equal(t, 0, second.RateLimit.Remaining)
}
