package cli

import (
	"context"
	"errors"

	"github.com/johnqtcg/issueseed/internal/batch"
	"github.com/johnqtcg/issueseed/internal/config"
	gh "github.com/johnqtcg/issueseed/internal/github"
	"github.com/johnqtcg/issueseed/internal/input"
)

const (
	// ExitOK indicates all items completed successfully.
	ExitOK = 0
	// ExitRuntime indicates generic runtime failure.
	ExitRuntime = 1
	// ExitInvalidArguments indicates invalid CLI arguments or settings.
	ExitInvalidArguments = 2
	// ExitAuth indicates every item was rejected for authentication or authorization.
	ExitAuth = 3
	// ExitPartialSuccess indicates at least one item failed.
	ExitPartialSuccess = 4
	// ExitOutputConflict indicates the report file exists and --force was not given.
	ExitOutputConflict = 5
	// ExitInputUnavailable indicates the issues file could not be used.
	ExitInputUnavailable = 6
	// ExitCanceled indicates the run was interrupted.
	ExitCanceled = 130
)

// ResolveExitCode maps run state to CLI exit codes. outcome is nil when no batch ran.
func ResolveExitCode(err error, outcome *batch.Outcome) int {
	if outcome != nil {
		if outcome.Canceled {
			return ExitCanceled
		}
		if allAuthFailures(*outcome) {
			return ExitAuth
		}
		if outcome.FailCount > 0 {
			return ExitPartialSuccess
		}
	}
	if err == nil {
		return ExitOK
	}

	if config.IsInvalid(err) {
		return ExitInvalidArguments
	}

	if errors.Is(err, input.ErrInputUnavailable) {
		return ExitInputUnavailable
	}

	if errors.Is(err, ErrOutputConflict) {
		return ExitOutputConflict
	}

	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}

	if gh.IsAuthError(err) {
		return ExitAuth
	}

	return ExitRuntime
}

func allAuthFailures(outcome batch.Outcome) bool {
	if len(outcome.Items) == 0 || outcome.SuccessCount > 0 {
		return false
	}
	for _, item := range outcome.Items {
		if item.Failure == nil || !gh.IsAuthError(item.Failure) {
			return false
		}
	}
	return true
}
