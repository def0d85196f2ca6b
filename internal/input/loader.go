package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tailscale/hujson"
)

// ErrInputUnavailable indicates the issues file is missing, unreadable or unusable.
var ErrInputUnavailable = errors.New("issues input unavailable")

// Loader reads the issue records of an issues file.
type Loader interface {
	Load(path string) ([]Issue, error)
}

type fileLoader struct{}

// NewFileLoader creates a loader for JSON issues files. Comments and trailing
// commas are accepted; property names match case-insensitively.
func NewFileLoader() Loader {
	return &fileLoader{}
}

func (*fileLoader) Load(path string) (issues []Issue, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open issues file %q: %w: %w", path, ErrInputUnavailable, err)
	}
	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close issues file %q: %w", path, closeErr)
		}
	}()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read issues file %q: %w: %w", path, ErrInputUnavailable, err)
	}

	issues, err = Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse issues file %q: %w", path, err)
	}
	return issues, nil
}

// Parse decodes an issues document. An empty array is rejected.
func Parse(raw []byte) ([]Issue, error) {
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	var issues []Issue
	if err := json.Unmarshal(standard, &issues); err != nil {
		return nil, fmt.Errorf("%w: decode issue array: %w", ErrInputUnavailable, err)
	}
	if len(issues) == 0 {
		return nil, fmt.Errorf("%w: no issues found", ErrInputUnavailable)
	}
	return issues, nil
}
