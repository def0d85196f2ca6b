package config

import (
	"os"
	"path/filepath"
)

// SettingsFileNames are tried in order in every search directory.
var SettingsFileNames = []string{
	"appsettings.json",
	"appsettings.yaml",
	"appsettings.yml",
	"appsettings.toml",
}

// DefaultSearchDirs returns the executable directory, the working directory and
// every parent of the working directory, without duplicates.
func DefaultSearchDirs() []string {
	var exeDir string
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	cwd, _ := os.Getwd()
	return SearchDirs(exeDir, cwd)
}

// SearchDirs builds the lookup order from an executable and a working directory.
func SearchDirs(exeDir, cwd string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	add(exeDir)
	for dir := cwd; dir != ""; {
		add(dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs
}

// Locate returns the first existing regular file named name in dirs.
// Absolute names are checked as is.
func Locate(name string, dirs []string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, isFile(name)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func locateSettings(dirs []string) (string, bool) {
	for _, dir := range dirs {
		for _, name := range SettingsFileNames {
			candidate := filepath.Join(dir, name)
			if isFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
