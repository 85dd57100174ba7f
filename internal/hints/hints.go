// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nbtag/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains go-nbtag) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-nbtag/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNotebookNotFound returns hints for a directive naming a missing notebook.
func ForNotebookNotFound(notebookRoot string) string {
	if notebookRoot == "" {
		return ""
	}
	return format("notebook paths are relative to " + notebookRoot + "; see --content-dir and --notebook-dir")
}

// ForMalformedDirective returns a hint showing a valid directive.
func ForMalformedDirective(example string) string {
	if example == "" {
		return ""
	}
	return format("for example " + example)
}

// ForConversion returns hints for notebooks that fail to parse or render.
func ForConversion() string {
	return format("only nbformat 3 and 4 .ipynb files are supported; re-save the notebook in Jupyter")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForHeaderFile returns a reminder to include the header in the theme.
func ForHeaderFile(path string) string {
	return format("include " + path + " in the <head> of your theme templates")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
