package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/johnqtcg/issueseed/internal/github"
)

const (
	// DefaultAPIBaseURL is the public GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"
	// DefaultIssuesPath is the issues file looked up when none is given.
	DefaultIssuesPath = "issues.json"
	// DefaultAPICallDelay separates consecutive issues.
	DefaultAPICallDelay = 1000 * time.Millisecond
	// DefaultCommentDelay separates consecutive comments of one issue.
	DefaultCommentDelay = 500 * time.Millisecond
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Values shipped in the sample settings file. They are never valid credentials.
const (
	placeholderToken = "your_github_token_here"
	placeholderOwner = "your_username"
	placeholderName  = "your_repository_name"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Config represents normalized runtime configuration.
type Config struct {
	Token      string
	RepoOwner  string
	RepoName   string
	APIBaseURL string
	UserAgent  string

	IssuesPath string

	APICallDelay   time.Duration
	CommentDelay   time.Duration
	RequestTimeout time.Duration
	ShowDebugInfo  bool
	LogLevel       string

	// SourcePath is the settings file the values were read from, empty when none was found.
	SourcePath string
}

// Default returns the configuration used when no file, env or flag sets a value.
func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		UserAgent:      gh.DefaultUserAgent,
		IssuesPath:     DefaultIssuesPath,
		APICallDelay:   DefaultAPICallDelay,
		CommentDelay:   DefaultCommentDelay,
		RequestTimeout: gh.DefaultTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

// Repo returns the target repository.
func (c Config) Repo() gh.RepoRef {
	return gh.RepoRef{Owner: c.RepoOwner, Name: c.RepoName}
}

// ClientConfig maps the settings onto the GitHub client configuration.
func (c Config) ClientConfig() gh.Config {
	return gh.Config{
		Token:       c.Token,
		Repo:        c.Repo(),
		RESTBaseURL: c.APIBaseURL,
		UserAgent:   c.UserAgent,
		Timeout:     c.RequestTimeout,
	}
}

// Validate checks option values that do not involve credentials.
// Every problem is reported at once.
func (c Config) Validate() error {
	var errs []error

	if err := validateBaseURL(c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, NewValidationError("userAgent", "must not be empty"))
	}
	if strings.TrimSpace(c.IssuesPath) == "" {
		errs = append(errs, NewValidationError("issuesJsonPath", "must not be empty"))
	}
	if c.APICallDelay < 0 {
		errs = append(errs, NewValidationError("apiCallDelayMs", "must not be negative"))
	}
	if c.CommentDelay < 0 {
		errs = append(errs, NewValidationError("commentDelayMs", "must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, NewValidationError("requestTimeoutSeconds", "must be positive"))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, NewValidationError("logLevel", fmt.Sprintf("%q is not one of debug, info, warn, error", c.LogLevel)))
	}

	return errors.Join(errs...)
}

// ValidateCredentials checks the token and repository, rejecting blanks and
// the sample placeholder values.
func (c Config) ValidateCredentials() error {
	var errs []error

	if err := validateRequired("token", c.Token, placeholderToken); err != nil {
		errs = append(errs, err)
	}
	if err := validateRequired("repoOwner", c.RepoOwner, placeholderOwner); err != nil {
		errs = append(errs, err)
	}
	if err := validateRequired("repoName", c.RepoName, placeholderName); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateRepository checks only the repository, for commands that work without a token.
func (c Config) ValidateRepository() error {
	return errors.Join(
		validateRequired("repoOwner", c.RepoOwner, placeholderOwner),
		validateRequired("repoName", c.RepoName, placeholderName),
	)
}

func validateRequired(field, value, placeholder string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return newRequiredError(field)
	}
	if strings.EqualFold(value, placeholder) {
		return newPlaceholderError(field, placeholder)
	}
	return nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return NewValidationError("apiBaseUrl", err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return NewValidationError("apiBaseUrl", "must be an http or https URL")
	}
	if parsed.Host == "" {
		return NewValidationError("apiBaseUrl", "must include a host")
	}
	return nil
}
