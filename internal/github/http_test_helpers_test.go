package github

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestHTTPClient(fn roundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func newTestClient(t *testing.T, token string, fn roundTripFunc) *restClient {
	t.Helper()
	withRequest := func(r *http.Request) (*http.Response, error) {
		resp, err := fn(r)
		if resp != nil && resp.Request == nil {
			resp.Request = r
		}
		return resp, err
	}
	client, err := newRESTClient(Config{
		Token:       token,
		Repo:        RepoRef{Owner: "octo", Name: "repo"},
		RESTBaseURL: "https://api.test",
		UserAgent:   "issueseed-test/1.0",
		HTTPClient:  newTestHTTPClient(withRequest),
	}.WithDefaults())
	require.NoError(t, err)
	return client
}

func mustJSONResponse(t *testing.T, statusCode int, payload any) *http.Response {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, json.NewEncoder(buf).Encode(payload))
	return &http.Response{
		StatusCode: statusCode,
		Header: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Body: io.NopCloser(buf),
	}
}

func textHTTPResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func withRateLimitHeaders(resp *http.Response, limit, remaining, reset string) *http.Response {
	resp.Header.Set(headerRateLimit, limit)
	resp.Header.Set(headerRateRemaining, remaining)
	resp.Header.Set(headerRateReset, reset)
	return resp
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	return got
}
