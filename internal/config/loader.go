package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/johnqtcg/issueseed/internal/parser"
)

// EnvToken names the environment variable holding the access token.
const EnvToken = "GITHUB_TOKEN"

// Overrides carries values given on the command line. Nil fields are unset.
type Overrides struct {
	Token      *string
	RepoOwner  *string
	RepoName   *string
	Repo       *string
	APIBaseURL *string
	UserAgent  *string
	IssuesPath *string

	APICallDelayMs        *int
	CommentDelayMs        *int
	RequestTimeoutSeconds *int
	ShowDebugInfo         *bool
	LogLevel              *string
}

// LoadOptions selects where configuration comes from.
type LoadOptions struct {
	// ConfigPath is an explicit settings file; it must exist when set.
	ConfigPath string
	Overrides  Overrides
	// SearchDirs replaces DefaultSearchDirs for settings and issues file discovery.
	SearchDirs []string
}

// Loader resolves configuration with precedence flags > environment > file > defaults.
type Loader interface {
	Load(opts LoadOptions) (Config, error)
}

// NewLoader constructs the default configuration loader.
func NewLoader() Loader {
	return NewLoaderWithEnv(os.Getenv)
}

// NewLoaderWithEnv constructs a loader that reads environment values through getenv.
func NewLoaderWithEnv(getenv func(string) string) Loader {
	return &layeredLoader{
		getenv:     getenv,
		searchDirs: DefaultSearchDirs,
		repoParser: parser.New(),
	}
}

type layeredLoader struct {
	getenv     func(string) string
	searchDirs func() []string
	repoParser parser.RepoParser
}

func (l *layeredLoader) Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	dirs := opts.SearchDirs
	if len(dirs) == 0 {
		dirs = l.searchDirs()
	}

	path, err := resolveSettingsPath(opts.ConfigPath, dirs)
	if err != nil {
		return Config{}, WrapError("locate settings file", err)
	}
	if path != "" {
		doc, err := readFile(path)
		if err != nil {
			return Config{}, WrapError("load settings file", err)
		}
		doc.apply(&cfg)
		cfg.SourcePath = path
	}

	if token := strings.TrimSpace(l.getenv(EnvToken)); token != "" {
		cfg.Token = token
	}

	if err := l.applyOverrides(&cfg, opts.Overrides); err != nil {
		return Config{}, WrapError("apply flags", err)
	}

	cfg.IssuesPath = resolveIssuesPath(cfg.IssuesPath, dirs)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

func resolveSettingsPath(explicit string, dirs []string) (string, error) {
	if explicit == "" {
		path, _ := locateSettings(dirs)
		return path, nil
	}
	if !isFile(explicit) {
		return "", NewValidationError("config", fmt.Sprintf("settings file %q does not exist", explicit))
	}
	return explicit, nil
}

func (l *layeredLoader) applyOverrides(cfg *Config, o Overrides) error {
	if o.Repo != nil {
		if o.RepoOwner != nil {
			return NewConflictError("--repo", "--owner")
		}
		if o.RepoName != nil {
			return NewConflictError("--repo", "--name")
		}
		ref, err := l.repoParser.Parse(*o.Repo)
		if err != nil {
			return NewValidationError("repo", err.Error())
		}
		cfg.RepoOwner = ref.Owner
		cfg.RepoName = ref.Name
	}

	setString(&cfg.Token, o.Token)
	setString(&cfg.RepoOwner, o.RepoOwner)
	setString(&cfg.RepoName, o.RepoName)
	setString(&cfg.APIBaseURL, o.APIBaseURL)
	setString(&cfg.UserAgent, o.UserAgent)
	setString(&cfg.IssuesPath, o.IssuesPath)
	setMillis(&cfg.APICallDelay, o.APICallDelayMs)
	setMillis(&cfg.CommentDelay, o.CommentDelayMs)
	setSeconds(&cfg.RequestTimeout, o.RequestTimeoutSeconds)
	if o.ShowDebugInfo != nil {
		cfg.ShowDebugInfo = *o.ShowDebugInfo
	}
	setString(&cfg.LogLevel, o.LogLevel)
	return nil
}

// resolveIssuesPath keeps a path that exists as given and otherwise searches
// dirs for it. An unresolved path is returned unchanged.
func resolveIssuesPath(path string, dirs []string) string {
	if path == "" || isFile(path) {
		return path
	}
	if found, ok := Locate(path, dirs); ok {
		return found
	}
	return path
}
