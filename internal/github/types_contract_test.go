package github

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoRefURLs(t *testing.T) {
	t.Parallel()

	repo := RepoRef{Owner: "octo", Name: "repo"}

	assert.Equal(t, "octo/repo", repo.String())
	assert.Equal(t, "https://github.com/octo/repo/issues", repo.IssuesURL())
	assert.Equal(t, "https://github.com/octo/repo/issues/42", repo.IssueURL(42))
}

func TestIssueRequestWireFields(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(IssueRequest{Title: "t"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "body")
	assert.Contains(t, fields, "labels")
	assert.Contains(t, fields, "assignees")
	assert.NotContains(t, fields, "milestone")
}

func TestOutcomeSuccessPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IssueOutcome{Number: 1}.Created())
	assert.False(t, IssueOutcome{Failure: &Failure{StatusCode: 422}}.Created())
	assert.True(t, CommentOutcome{}.OK())
	assert.False(t, CommentOutcome{Failure: &Failure{Detail: "eof"}}.OK())
}
