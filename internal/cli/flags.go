package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/johnqtcg/issueseed/internal/config"
	gh "github.com/johnqtcg/issueseed/internal/github"
)

const (
	flagToken        = "token"
	flagOwner        = "owner"
	flagName         = "name"
	flagRepo         = "repo"
	flagAPIBase      = "api-base"
	flagUserAgent    = "user-agent"
	flagTimeout      = "timeout"
	flagDebug        = "debug"
	flagLogLevel     = "log-level"
	flagConfig       = "config"
	flagDelay        = "delay"
	flagCommentDelay = "comment-delay"
)

// sharedOptions are accepted by every command.
type sharedOptions struct {
	configPath     string
	token          string
	owner          string
	name           string
	repo           string
	apiBase        string
	userAgent      string
	timeoutSeconds int
	debug          bool
	logLevel       string
}

func (s *sharedOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, flagConfig, "", "settings file (default: discovered appsettings.json/.yaml/.yml/.toml)")
	flags.StringVar(&s.token, flagToken, "", "GitHub personal access token (env GITHUB_TOKEN)")
	flags.StringVar(&s.owner, flagOwner, "", "repository owner")
	flags.StringVar(&s.name, flagName, "", "repository name")
	flags.StringVar(&s.repo, flagRepo, "", "repository as owner/name or GitHub URL")
	flags.StringVar(&s.apiBase, flagAPIBase, config.DefaultAPIBaseURL, "GitHub REST API base URL")
	flags.StringVar(&s.userAgent, flagUserAgent, gh.DefaultUserAgent, "User-Agent header")
	flags.IntVar(&s.timeoutSeconds, flagTimeout, int(gh.DefaultTimeout.Seconds()), "per-request timeout in seconds")
	flags.BoolVar(&s.debug, flagDebug, false, "debug logging and per-call rate-limit output")
	flags.StringVar(&s.logLevel, flagLogLevel, config.DefaultLogLevel, "log level: debug, info, warn, error")
}

// overrides returns only the flags the user set, so unset flags never mask
// settings file or environment values.
func (s sharedOptions) overrides(flags *pflag.FlagSet) config.Overrides {
	var o config.Overrides
	if flags.Changed(flagToken) {
		o.Token = &s.token
	}
	if flags.Changed(flagOwner) {
		o.RepoOwner = &s.owner
	}
	if flags.Changed(flagName) {
		o.RepoName = &s.name
	}
	if flags.Changed(flagRepo) {
		o.Repo = &s.repo
	}
	if flags.Changed(flagAPIBase) {
		o.APIBaseURL = &s.apiBase
	}
	if flags.Changed(flagUserAgent) {
		o.UserAgent = &s.userAgent
	}
	if flags.Changed(flagTimeout) {
		o.RequestTimeoutSeconds = &s.timeoutSeconds
	}
	if flags.Changed(flagDebug) {
		o.ShowDebugInfo = &s.debug
	}
	if flags.Changed(flagLogLevel) {
		o.LogLevel = &s.logLevel
	}
	return o
}

// seedOptions are specific to the upload command.
type seedOptions struct {
	delayMs        int
	commentDelayMs int
	yes            bool
	dryRun         bool
	reportPath     string
	force          bool
}

func (s *seedOptions) applyOverrides(flags *pflag.FlagSet, o *config.Overrides) {
	if flags.Changed(flagDelay) {
		o.APICallDelayMs = &s.delayMs
	}
	if flags.Changed(flagCommentDelay) {
		o.CommentDelayMs = &s.commentDelayMs
	}
}
