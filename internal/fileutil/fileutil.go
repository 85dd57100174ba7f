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
	ErrEmptyName      = errors.New("file name cannot be empty")
	ErrPathEscape     = errors.New("path escapes root directory")
	ErrNullByteInName = errors.New("file name contains null byte")
)

// Default permissions for written files and created directories.
const (
	FilePerm = 0o644
	DirPerm  = 0o755
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "nbtag" -> false (name)
//   - "./nbtag.yaml" -> true (relative path)
//   - "/etc/nbtag.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SafeJoin joins a slash-separated relative name under root. Parent
// directory segments ("../") are dropped rather than followed, so the result
// always stays inside root.
//
// Examples:
//   - ("output", "../downloads/nb/a.png") -> "output/downloads/nb/a.png"
//   - ("output", "a/../../b.png") -> "output/a/b.png"
func SafeJoin(root, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsRune(name, 0) {
		return "", ErrNullByteInName
	}

	name = strings.ReplaceAll(filepath.ToSlash(name), "../", "")
	name = filepath.Clean(filepath.FromSlash(name))
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, name)
	}

	joined := filepath.Join(root, name)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, name)
	}
	return joined, nil
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, FilePerm); err != nil { // #nosec G306 -- site output is world-readable
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
