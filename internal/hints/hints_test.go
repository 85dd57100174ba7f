package hints

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains []string
		excludes []string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"nbtag.yaml", filepath.Join("home", "me", ".config", "go-nbtag", "nbtag.yaml")},
			contains: []string{"--config", "or create", "go-nbtag"},
		},
		{
			name:     "local paths only",
			paths:    []string{"nbtag.yaml", "nbtag.yml"},
			contains: []string{"--config"},
			excludes: []string{"or create"},
		},
		{
			name:     "no paths",
			paths:    nil,
			contains: []string{"--config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q should contain %q", hint, want)
				}
			}
			for _, notWant := range tt.excludes {
				if strings.Contains(hint, notWant) {
					t.Errorf("hint %q should not contain %q", hint, notWant)
				}
			}
		})
	}
}

func TestForNotebookNotFound(t *testing.T) {
	t.Parallel()

	if got := ForNotebookNotFound(""); got != "" {
		t.Errorf("ForNotebookNotFound(\"\") = %q, want empty", got)
	}
	got := ForNotebookNotFound("content/notebooks")
	if !strings.Contains(got, "content/notebooks") || !strings.Contains(got, "--notebook-dir") {
		t.Errorf("ForNotebookNotFound() = %q, want root and flag", got)
	}
}

func TestForMalformedDirective(t *testing.T) {
	t.Parallel()

	if got := ForMalformedDirective(""); got != "" {
		t.Errorf("ForMalformedDirective(\"\") = %q, want empty", got)
	}
	if got := ForMalformedDirective("demo.ipynb cells[1:3]"); !strings.Contains(got, "demo.ipynb cells[1:3]") {
		t.Errorf("ForMalformedDirective() = %q, want example included", got)
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	if got := ForStyleNotFound([]string{"monokai", "pygments"}); !strings.Contains(got, "monokai, pygments") {
		t.Errorf("ForStyleNotFound() = %q, want joined list", got)
	}
}

func TestForHeaderFile(t *testing.T) {
	t.Parallel()

	if got := ForHeaderFile("_nb_header.html"); !strings.Contains(got, "_nb_header.html") {
		t.Errorf("ForHeaderFile() = %q, want path included", got)
	}
}

// ---------------------------------------------------------------------------
// TestFormat_Consistency - Every non-empty hint shares one prefix
// ---------------------------------------------------------------------------

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := map[string]string{
		"ForConfigNotFound":     ForConfigNotFound(nil),
		"ForNotebookNotFound":   ForNotebookNotFound("content/notebooks"),
		"ForMalformedDirective": ForMalformedDirective("a.ipynb"),
		"ForConversion":         ForConversion(),
		"ForOutputDirectory":    ForOutputDirectory(),
		"ForStyleNotFound":      ForStyleNotFound([]string{"x"}),
		"ForHeaderFile":         ForHeaderFile("h.html"),
	}

	for name, hint := range hints {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s() = %q, want \"\\n  hint: \" prefix", name, hint)
		}
	}

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
}
