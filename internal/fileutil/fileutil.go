// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyRoot      = errors.New("root directory cannot be empty")
	ErrPathEscapesDir = errors.New("path escapes root directory")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "stageload" -> false (name)
//   - "./stageload.yaml" -> true (relative path)
//   - "../shared/dev.toml" -> true (parent path)
//   - "/etc/stageload.yaml" -> true (absolute)
//   - "C:\config\dev.yaml" -> true (Windows)
//   - "dev-local" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ResolveRoot returns the absolute, symlink-resolved form of dir.
// Containment checks compare against this form.
func ResolveRoot(dir string) (string, error) {
	if dir == "" {
		return "", ErrEmptyRoot
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}

// Contained ensures path resolves to a location strictly inside root.
// root must already be resolved with ResolveRoot. Symlinks in path are
// followed when the target exists, so a link pointing outside root fails.
func Contained(root, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscapesDir)
	}
	// Missing files keep the lexical path; opening them fails later.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	// Separator suffix prevents /base/path matching /base/pathevil.
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathEscapesDir, path)
	}
	return nil
}
