package github

import (
	"errors"
	"net/http"
	"strings"
)

// StatusCode extracts the HTTP status code of a wrapped Failure when available.
func StatusCode(err error) (int, bool) {
	var failure *Failure
	if errors.As(err, &failure) && failure.HasStatus() {
		return failure.StatusCode, true
	}
	return 0, false
}

// IsRateLimitError reports whether an error is a GitHub rate limit rejection.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	if status, ok := StatusCode(err); ok {
		if status == http.StatusTooManyRequests {
			return true
		}
		if status == http.StatusForbidden && looksLikeRateLimitError(err) {
			return true
		}
	}

	return looksLikeRateLimitError(err)
}

// IsAuthError reports whether an error is an authentication or authorization failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimitError(err) {
		return false
	}

	if status, ok := StatusCode(err); ok {
		return status == http.StatusUnauthorized || status == http.StatusForbidden
	}

	text := strings.ToLower(err.Error())
	return strings.Contains(text, "status 401") ||
		strings.Contains(text, "status 403") ||
		strings.Contains(text, "unauthorized") ||
		strings.Contains(text, "bad credentials")
}

func looksLikeRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	text := strings.ToLower(err.Error())
	return strings.Contains(text, "rate limit")
}
