package nbtag

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-nbtag/internal/fileutil"
)

// DefaultHeaderPath is the shared header file themes include in every page head.
const DefaultHeaderPath = "_nb_header.html"

// styleWrapper wraps one stylesheet block of the header.
const styleWrapper = "<style type=\"text/css\">\n%s\n</style>\n"

// HeaderWriter writes the shared notebook header at most once.
//
// The header holds the stylesheets of the first rendered notebook followed by
// supplementary markup (script includes, style overrides). Later calls are
// no-ops even if their stylesheets differ. A failed write does not count:
// the next call tries again. HeaderWriter is safe for concurrent use.
type HeaderWriter struct {
	path string

	mu      sync.Mutex
	written bool
}

// NewHeaderWriter creates a HeaderWriter for path.
// An empty path selects DefaultHeaderPath.
func NewHeaderWriter(path string) *HeaderWriter {
	if path == "" {
		path = DefaultHeaderPath
	}
	return &HeaderWriter{path: path}
}

// Path returns the header file path.
func (h *HeaderWriter) Path() string {
	return h.path
}

// WriteOnce writes css and markup to the header file unless a previous call
// already did. Reports whether this call wrote the file.
func (h *HeaderWriter) WriteOnce(css []string, markup string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.written {
		return false, nil
	}
	if err := fileutil.WriteFile(h.path, []byte(BuildHeader(css, markup))); err != nil {
		return false, fmt.Errorf("%w: header %s: %v", ErrIO, h.path, err)
	}
	h.written = true
	return true, nil
}

// Written reports whether the header has been written.
func (h *HeaderWriter) Written() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.written
}

// Reset clears the written flag so the next WriteOnce writes again.
func (h *HeaderWriter) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.written = false
}

// BuildHeader returns the header content: each stylesheet in a <style>
// element, in order, followed by markup.
func BuildHeader(css []string, markup string) string {
	var b strings.Builder
	for i, block := range css {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, styleWrapper, block)
	}
	b.WriteString(markup)
	return b.String()
}
