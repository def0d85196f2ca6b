package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// fileDocument mirrors the appsettings layout. Pointer fields distinguish
// absent keys from zero values.
type fileDocument struct {
	GitHub      gitHubSection      `yaml:"GitHubSettings" toml:"GitHubSettings"`
	File        fileSection        `yaml:"FileSettings" toml:"FileSettings"`
	Application applicationSection `yaml:"ApplicationSettings" toml:"ApplicationSettings"`
}

type gitHubSection struct {
	Token      *string `yaml:"Token" toml:"Token"`
	RepoOwner  *string `yaml:"RepoOwner" toml:"RepoOwner"`
	RepoName   *string `yaml:"RepoName" toml:"RepoName"`
	APIBaseURL *string `yaml:"ApiBaseUrl" toml:"ApiBaseUrl"`
	UserAgent  *string `yaml:"UserAgent" toml:"UserAgent"`
}

type fileSection struct {
	IssuesJSONPath *string `yaml:"IssuesJsonPath" toml:"IssuesJsonPath"`
}

type applicationSection struct {
	APICallDelayMs        *int    `yaml:"ApiCallDelayMs" toml:"ApiCallDelayMs"`
	CommentDelayMs        *int    `yaml:"CommentDelayMs" toml:"CommentDelayMs"`
	RequestTimeoutSeconds *int    `yaml:"RequestTimeoutSeconds" toml:"RequestTimeoutSeconds"`
	ShowDebugInfo         *bool   `yaml:"ShowDebugInfo" toml:"ShowDebugInfo"`
	LogLevel              *string `yaml:"LogLevel" toml:"LogLevel"`
}

// readFile decodes a settings file by extension: .toml with go-toml, everything
// else as YAML. JSON files may carry comments and trailing commas.
func readFile(path string) (fileDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileDocument{}, fmt.Errorf("read settings file %q: %w", path, err)
	}

	var doc fileDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return fileDocument{}, fmt.Errorf("decode TOML settings %q: %w", path, err)
		}
	case ".json":
		standard, err := hujson.Standardize(raw)
		if err != nil {
			return fileDocument{}, fmt.Errorf("decode JSON settings %q: %w", path, err)
		}
		if err := decodeYAML(standard, &doc); err != nil {
			return fileDocument{}, fmt.Errorf("decode JSON settings %q: %w", path, err)
		}
	default:
		if err := decodeYAML(raw, &doc); err != nil {
			return fileDocument{}, fmt.Errorf("decode YAML settings %q: %w", path, err)
		}
	}
	return doc, nil
}

func decodeYAML(raw []byte, doc *fileDocument) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return yaml.Unmarshal(raw, doc)
}

func (d fileDocument) apply(cfg *Config) {
	setString(&cfg.Token, d.GitHub.Token)
	setString(&cfg.RepoOwner, d.GitHub.RepoOwner)
	setString(&cfg.RepoName, d.GitHub.RepoName)
	setString(&cfg.APIBaseURL, d.GitHub.APIBaseURL)
	setString(&cfg.UserAgent, d.GitHub.UserAgent)
	setString(&cfg.IssuesPath, d.File.IssuesJSONPath)
	setMillis(&cfg.APICallDelay, d.Application.APICallDelayMs)
	setMillis(&cfg.CommentDelay, d.Application.CommentDelayMs)
	setSeconds(&cfg.RequestTimeout, d.Application.RequestTimeoutSeconds)
	if d.Application.ShowDebugInfo != nil {
		cfg.ShowDebugInfo = *d.Application.ShowDebugInfo
	}
	setString(&cfg.LogLevel, d.Application.LogLevel)
}

// Empty strings in a settings file leave the current value in place.
func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}

func setMillis(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Millisecond
	}
}

func setSeconds(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Second
	}
}
