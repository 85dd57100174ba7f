package fileutil_test

// Notes:
// - WriteFile permission failures are not tested: they depend on the user
//   running the tests (root ignores directory modes).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-nbtag/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestSafeJoin - Relative names stay under the root
// ---------------------------------------------------------------------------

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	root := filepath.Join("site", "output")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain name",
			input: "a.png",
			want:  filepath.Join(root, "a.png"),
		},
		{
			name:  "leading parent segment dropped",
			input: "../downloads/notebooks/demo_output_1_0.png",
			want:  filepath.Join(root, "downloads", "notebooks", "demo_output_1_0.png"),
		},
		{
			name:  "inner parent segments dropped",
			input: "a/../../b.png",
			want:  filepath.Join(root, "a", "b.png"),
		},
		{
			name:  "absolute name rooted",
			input: "/etc/passwd",
			want:  filepath.Join(root, "etc", "passwd"),
		},
		{
			name:    "bare parent",
			input:   "..",
			wantErr: fileutil.ErrPathEscape,
		},
		{
			name:    "dots collapsing to parent",
			input:   "....//",
			wantErr: fileutil.ErrPathEscape,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: fileutil.ErrEmptyName,
		},
		{
			name:    "null byte",
			input:   "a\x00.png",
			wantErr: fileutil.ErrNullByteInName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.SafeJoin(root, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SafeJoin(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoin(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SafeJoin(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFile - Parent directories are created
// ---------------------------------------------------------------------------

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deep", "nested", "file.bin")
	if err := fileutil.WriteFile(path, []byte("data")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q, want %q", got, "data")
	}
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.WriteFile(filepath.Join(blocker, "child.txt"), []byte("x")); err == nil {
		t.Error("expected error when parent path is a regular file")
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "nb.ipynb")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "missing.ipynb"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "nbtag", want: false},
		{input: "./nbtag.yaml", want: true},
		{input: "/etc/nbtag.yaml", want: true},
		{input: `C:\nbtag.yaml`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
