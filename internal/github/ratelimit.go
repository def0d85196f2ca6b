package github

import (
	"context"
	"net/http"
	"strconv"

	goGithub "github.com/google/go-github/v72/github"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

type rateLimitBody struct {
	Rate *struct {
		Limit     *int   `json:"limit"`
		Remaining *int   `json:"remaining"`
		Reset     *int64 `json:"reset"`
	} `json:"rate"`
}

func (b rateLimitBody) snapshot() (RateLimitSnapshot, bool) {
	if b.Rate == nil || b.Rate.Limit == nil || b.Rate.Remaining == nil || b.Rate.Reset == nil {
		return RateLimitSnapshot{}, false
	}
	return RateLimitSnapshot{
		Limit:     *b.Rate.Limit,
		Remaining: *b.Rate.Remaining,
		Reset:     *b.Rate.Reset,
	}, true
}

// Probe reads the current budget from GET /rate_limit. Response headers win;
// the rate object of the body is the fallback.
func (c *restClient) Probe(ctx context.Context) (RateLimitSnapshot, bool) {
	ctx = uncheckedContext(ctx)

	req, err := c.client.NewRequest(http.MethodGet, "rate_limit", nil)
	if err != nil {
		return RateLimitSnapshot{}, false
	}

	var body rateLimitBody
	resp, err := c.client.Do(ctx, req, &body)
	if resp == nil || resp.Response == nil || !isSuccessStatus(resp.StatusCode) {
		return RateLimitSnapshot{}, false
	}
	if snap, ok := ParseRateLimitHeader(resp.Header); ok {
		return snap, true
	}
	if err != nil {
		return RateLimitSnapshot{}, false
	}
	return body.snapshot()
}

// ParseRateLimitHeader builds a snapshot from the X-RateLimit-* headers.
// All three headers must be present and integer-valued.
func ParseRateLimitHeader(h http.Header) (RateLimitSnapshot, bool) {
	limit, err := strconv.Atoi(h.Get(headerRateLimit))
	if err != nil {
		return RateLimitSnapshot{}, false
	}
	remaining, err := strconv.Atoi(h.Get(headerRateRemaining))
	if err != nil {
		return RateLimitSnapshot{}, false
	}
	reset, err := strconv.ParseInt(h.Get(headerRateReset), 10, 64)
	if err != nil {
		return RateLimitSnapshot{}, false
	}
	return RateLimitSnapshot{Limit: limit, Remaining: remaining, Reset: reset}, true
}

func rateLimitFromResponse(resp *goGithub.Response) *RateLimitSnapshot {
	if resp == nil || resp.Response == nil {
		return nil
	}
	snap, ok := ParseRateLimitHeader(resp.Header)
	if !ok {
		return nil
	}
	return &snap
}
