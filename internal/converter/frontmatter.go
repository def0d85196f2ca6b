package converter

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnqtcg/issueseed/internal/batch"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

type frontMatter struct {
	Repository  string `yaml:"repository"`
	GeneratedAt string `yaml:"generated_at"`
	IssuesFile  string `yaml:"issues_file,omitempty"`
	Total       int    `yaml:"total"`
	Succeeded   int    `yaml:"succeeded"`
	Failed      int    `yaml:"failed"`
	Canceled    bool   `yaml:"canceled"`
	Elapsed     string `yaml:"elapsed"`

	RateLimitStart *rateLimitFields `yaml:"rate_limit_start,omitempty"`
	RateLimitEnd   *rateLimitFields `yaml:"rate_limit_end,omitempty"`
	Consumed       *int             `yaml:"consumed,omitempty"`

	Created []int `yaml:"created,flow"`
}

type rateLimitFields struct {
	Limit     int    `yaml:"limit"`
	Remaining int    `yaml:"remaining"`
	Reset     string `yaml:"reset"`
}

func renderFrontMatter(report Report) (string, error) {
	out := report.Outcome
	fm := frontMatter{
		Repository:     report.Repo.String(),
		GeneratedAt:    report.GeneratedAt.UTC().Format(time.RFC3339),
		IssuesFile:     report.IssuesFile,
		Total:          out.Total(),
		Succeeded:      out.SuccessCount,
		Failed:         out.FailCount,
		Canceled:       out.Canceled,
		Elapsed:        out.Elapsed.Round(time.Millisecond).String(),
		RateLimitStart: toRateLimitFields(out.Start),
		RateLimitEnd:   toRateLimitFields(out.End),
		Created:        createdNumbers(out),
	}
	if consumed, ok := out.Consumed(); ok {
		fm.Consumed = &consumed
	}

	raw, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return "---\n" + string(raw) + "---\n\n", nil
}

func toRateLimitFields(s *gh.RateLimitSnapshot) *rateLimitFields {
	if s == nil {
		return nil
	}
	return &rateLimitFields{
		Limit:     s.Limit,
		Remaining: s.Remaining,
		Reset:     formatReset(*s),
	}
}

func createdNumbers(out batch.Outcome) []int {
	numbers := make([]int, 0, out.SuccessCount)
	for _, item := range out.Items {
		if item.Created() {
			numbers = append(numbers, item.Number)
		}
	}
	return numbers
}

func formatReset(s gh.RateLimitSnapshot) string {
	return s.ResetTime().UTC().Format(time.RFC3339)
}
