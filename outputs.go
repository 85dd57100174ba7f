package nbtag

import (
	"fmt"
	"sort"

	"github.com/alnah/go-nbtag/internal/fileutil"
)

// DefaultOutputRoot is the site output directory extracted files are written under.
const DefaultOutputRoot = "output"

// OutputWriter persists files extracted from notebook outputs.
type OutputWriter struct {
	root string
}

// NewOutputWriter creates an OutputWriter rooted at root.
// An empty root selects DefaultOutputRoot.
func NewOutputWriter(root string) *OutputWriter {
	if root == "" {
		root = DefaultOutputRoot
	}
	return &OutputWriter{root: root}
}

// Root returns the directory files are written under.
func (w *OutputWriter) Root() string {
	return w.root
}

// WriteOutputs writes every entry of outputs under the root. Names are
// relative and slash-separated; parent directory segments are dropped so
// nothing is written outside the root. Returns the written paths in name
// order. Failures wrap ErrIO; files written before a failure are kept.
func (w *OutputWriter) WriteOutputs(outputs map[string][]byte) ([]string, error) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		dest, err := fileutil.SafeJoin(w.root, name)
		if err != nil {
			return written, fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err := fileutil.WriteFile(dest, outputs[name]); err != nil {
			return written, fmt.Errorf("%w: %s: %v", ErrIO, dest, err)
		}
		written = append(written, dest)
	}
	return written, nil
}
