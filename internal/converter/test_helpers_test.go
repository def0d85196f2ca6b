package converter

import (
	"time"

	"github.com/johnqtcg/issueseed/internal/batch"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

func sampleReport() Report {
	return Report{
		Repo:        gh.RepoRef{Owner: "octo", Name: "repo"},
		GeneratedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		IssuesFile:  "issues.json",
		Outcome: batch.Outcome{
			SuccessCount: 2,
			FailCount:    1,
			Start:        &gh.RateLimitSnapshot{Limit: 5000, Remaining: 4990, Reset: 1700000000},
			End:          &gh.RateLimitSnapshot{Limit: 5000, Remaining: 4984, Reset: 1700000000},
			Elapsed:      2500 * time.Millisecond,
			Items: []batch.ItemResult{
				{
					Index:  1,
					Title:  "Set up CI",
					Number: 11,
					URL:    "https://github.com/octo/repo/issues/11",
					Comments: []batch.CommentResult{
						{Position: 1},
						{Position: 2, Failure: &gh.Failure{StatusCode: 500, Detail: "{\"message\":\n\"Server Error\"}"}},
					},
				},
				{
					Index:   2,
					Title:   "",
					Failure: &gh.Failure{StatusCode: 422, Detail: `{"message":"Validation Failed"}`},
				},
				{
					Index:  3,
					Title:  "Write README",
					Number: 12,
					URL:    "https://github.com/octo/repo/issues/12",
				},
			},
		},
	}
}
