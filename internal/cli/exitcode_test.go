package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnqtcg/issueseed/internal/batch"
	"github.com/johnqtcg/issueseed/internal/config"
	gh "github.com/johnqtcg/issueseed/internal/github"
	"github.com/johnqtcg/issueseed/internal/input"
	"github.com/johnqtcg/issueseed/internal/parser"
)

func failedItem(status int, detail string) batch.ItemResult {
	return batch.ItemResult{Failure: &gh.Failure{StatusCode: status, Detail: detail}}
}

func TestResolveExitCode(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		err      error
		outcome  *batch.Outcome
		wantCode int
	}{
		{name: "success", wantCode: ExitOK},
		{name: "validation error", err: config.NewValidationError("token", "is required"), wantCode: ExitInvalidArguments},
		{name: "joined validation errors", err: config.WrapError("validate settings", errors.Join(config.NewValidationError("token", "x"), config.NewValidationError("repoName", "y"))), wantCode: ExitInvalidArguments},
		{name: "conflict error", err: config.NewConflictError("--repo", "--owner"), wantCode: ExitInvalidArguments},
		{name: "invalid repository", err: fmt.Errorf("parse: %w", parser.ErrInvalidRepository), wantCode: ExitInvalidArguments},
		{name: "input unavailable", err: fmt.Errorf("load issues: %w", input.ErrInputUnavailable), wantCode: ExitInputUnavailable},
		{name: "output conflict", err: fmt.Errorf("write report: %w", ErrOutputConflict), wantCode: ExitOutputConflict},
		{name: "canceled error", err: context.Canceled, wantCode: ExitCanceled},
		{name: "auth failure", err: &gh.Failure{StatusCode: 401, Detail: "Bad credentials"}, wantCode: ExitAuth},
		{name: "rate limit 403 is not auth", err: &gh.Failure{StatusCode: 403, Detail: "API rate limit exceeded"}, wantCode: ExitRuntime},
		{name: "generic error", err: errors.New("boom"), wantCode: ExitRuntime},
		{
			name:     "batch all ok",
			outcome:  &batch.Outcome{SuccessCount: 1, Items: []batch.ItemResult{{Number: 1}}},
			wantCode: ExitOK,
		},
		{
			name:     "batch partial",
			outcome:  &batch.Outcome{SuccessCount: 1, FailCount: 1, Items: []batch.ItemResult{{Number: 1}, failedItem(422, "bad")}},
			wantCode: ExitPartialSuccess,
		},
		{
			name:     "batch all auth failures",
			outcome:  &batch.Outcome{FailCount: 2, Items: []batch.ItemResult{failedItem(401, "Bad credentials"), failedItem(403, "Resource not accessible")}},
			wantCode: ExitAuth,
		},
		{
			name:     "batch mixed failures",
			outcome:  &batch.Outcome{FailCount: 2, Items: []batch.ItemResult{failedItem(401, "Bad credentials"), failedItem(422, "bad")}},
			wantCode: ExitPartialSuccess,
		},
		{
			name:     "batch canceled",
			outcome:  &batch.Outcome{FailCount: 1, Canceled: true, Items: []batch.ItemResult{failedItem(422, "bad")}},
			wantCode: ExitCanceled,
		},
		{
			name:     "report failure after clean batch",
			err:      fmt.Errorf("write report: %w", ErrOutputConflict),
			outcome:  &batch.Outcome{SuccessCount: 1, Items: []batch.ItemResult{{Number: 1}}},
			wantCode: ExitOutputConflict,
		},
		{
			name:     "empty batch",
			outcome:  &batch.Outcome{},
			wantCode: ExitOK,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantCode, ResolveExitCode(tc.err, tc.outcome))
		})
	}
}
