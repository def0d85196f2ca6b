package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultRESTBaseURL is the public GitHub REST API root.
	DefaultRESTBaseURL = "https://api.github.com/"
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "issueseed/1.0"
	// DefaultTimeout bounds one HTTP request.
	DefaultTimeout = 30 * time.Second
)

// ErrMissingRepository indicates the client was configured without owner or name.
var ErrMissingRepository = errors.New("repository owner and name are required")

// IssueCreator creates issues and issue comments in one repository.
type IssueCreator interface {
	CreateIssue(ctx context.Context, req IssueRequest) IssueOutcome
	CreateComment(ctx context.Context, number int, body string) CommentOutcome
}

// RateLimitProber reads the current rate-limit budget.
// The boolean result is false when no snapshot could be obtained.
type RateLimitProber interface {
	Probe(ctx context.Context) (RateLimitSnapshot, bool)
}

// Client is the authenticated GitHub REST client used by a batch run.
type Client interface {
	IssueCreator
	RateLimitProber
	Close() error
}

// Config configures the GitHub client.
type Config struct {
	Token       string
	Repo        RepoRef
	RESTBaseURL string
	UserAgent   string
	Timeout     time.Duration

	// HTTPClient replaces the owned transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// WithDefaults fills missing optional values with package defaults.
func (c Config) WithDefaults() Config {
	if c.RESTBaseURL == "" {
		c.RESTBaseURL = DefaultRESTBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// NewClient constructs a client bound to cfg.Repo.
func NewClient(cfg Config) (Client, error) {
	cfg = cfg.WithDefaults()
	if cfg.Repo.Owner == "" || cfg.Repo.Name == "" {
		return nil, ErrMissingRepository
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid Timeout %s", cfg.Timeout)
	}

	client, err := newRESTClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create REST client: %w", err)
	}
	return client, nil
}
