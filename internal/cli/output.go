package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gh "github.com/johnqtcg/issueseed/internal/github"
)

// ErrOutputConflict indicates the output file already exists and force mode is disabled.
var ErrOutputConflict = errors.New("output file already exists")

// ReportWriter writes a rendered run report to the filesystem.
type ReportWriter interface {
	// Prepare resolves target to the report file path and fails with
	// ErrOutputConflict when that file exists and force is off.
	Prepare(target string, force bool, repo gh.RepoRef, at time.Time) (string, error)
	// Write stores markdown at a path returned by Prepare.
	Write(path string, force bool, markdown []byte) error
}

type fileReportWriter struct{}

// NewReportWriter creates the default report file writer.
func NewReportWriter() ReportWriter {
	return &fileReportWriter{}
}

func (*fileReportWriter) Prepare(target string, force bool, repo gh.RepoRef, at time.Time) (string, error) {
	targetPath, err := resolveOutputPath(target, repo, at)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := ensureWritable(targetPath, force); err != nil {
		return "", fmt.Errorf("validate output path %q: %w", targetPath, err)
	}
	return targetPath, nil
}

func (*fileReportWriter) Write(path string, force bool, markdown []byte) error {
	// The file may have appeared while the batch ran.
	if err := ensureWritable(path, force); err != nil {
		return fmt.Errorf("validate output path %q: %w", path, err)
	}

	parentDir := filepath.Dir(path)
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", parentDir, err)
	}

	if err := os.WriteFile(path, markdown, 0o644); err != nil {
		return fmt.Errorf("write output file %q: %w", path, err)
	}
	return nil
}

// resolveOutputPath treats an existing directory, a trailing separator or a
// path without the .md extension as a directory that gets the default name.
func resolveOutputPath(target string, repo gh.RepoRef, at time.Time) (string, error) {
	defaultName := defaultFileName(repo, at)
	if target == "" {
		return defaultName, nil
	}

	info, err := os.Stat(target)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(target, defaultName), nil
	case err == nil:
		return target, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat output path %q: %w", target, err)
	}

	if strings.EqualFold(filepath.Ext(target), ".md") {
		return target, nil
	}
	return filepath.Join(target, defaultName), nil
}

func defaultFileName(repo gh.RepoRef, at time.Time) string {
	return fmt.Sprintf("%s-%s-issues-%s.md", repo.Owner, repo.Name, at.Format("20060102-150405"))
}

func ensureWritable(path string, force bool) error {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}
	if !force {
		return ErrOutputConflict
	}
	return nil
}
