// Package parser turns user-supplied repository references into a RepoRef.
package parser

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	gh "github.com/johnqtcg/issueseed/internal/github"
)

// ErrInvalidRepository indicates the input is not an owner/name pair or a GitHub repository URL.
var ErrInvalidRepository = errors.New("invalid repository reference")

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// RepoParser parses a repository reference.
type RepoParser interface {
	Parse(raw string) (gh.RepoRef, error)
}

// New creates the default repository parser.
func New() RepoParser {
	return &defaultParser{}
}

type defaultParser struct{}

// Parse accepts "owner/name", "github.com/owner/name" and https URLs of a
// repository or any page inside it. A ".git" suffix is dropped.
func (*defaultParser) Parse(raw string) (gh.RepoRef, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return gh.RepoRef{}, invalid("reference must not be empty")
	}

	path := text
	if strings.Contains(text, "://") || strings.HasPrefix(strings.ToLower(text), "github.com/") || strings.HasPrefix(strings.ToLower(text), "www.github.com/") {
		if !strings.Contains(text, "://") {
			text = "https://" + text
		}
		parsedURL, err := url.Parse(text)
		if err != nil {
			return gh.RepoRef{}, fmt.Errorf("parse URL %q: %w", raw, invalid(err.Error()))
		}
		host := strings.ToLower(parsedURL.Hostname())
		if host != "github.com" && host != "www.github.com" {
			return gh.RepoRef{}, fmt.Errorf("validate URL host %q: %w", host, invalid("unsupported host"))
		}
		path = parsedURL.Path
	}

	owner, name, err := splitOwnerName(path)
	if err != nil {
		return gh.RepoRef{}, fmt.Errorf("parse repository %q: %w", raw, err)
	}
	return gh.RepoRef{Owner: owner, Name: name}, nil
}

func splitOwnerName(rawPath string) (string, string, error) {
	segments := splitPathSegments(rawPath)
	if len(segments) < 2 {
		return "", "", invalid("expected owner/name")
	}

	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if !ownerPattern.MatchString(owner) {
		return "", "", invalid(fmt.Sprintf("owner %q is not a valid GitHub login", owner))
	}
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return "", "", invalid(fmt.Sprintf("name %q is not a valid repository name", name))
	}
	return owner, name, nil
}

func splitPathSegments(rawPath string) []string {
	trimmed := strings.Trim(rawPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRepository, reason)
}
