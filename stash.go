package nbtag

import (
	"html"
	"regexp"
	"strconv"
	"sync"
)

// Stash placeholders use Private Use Area runes so they survive Markdown
// rendering unchanged; the decimal index between them selects the entry.
const (
	stashStart = "\uE020" // U+E020: Private Use Area
	stashEnd   = "\uE021" // U+E021: Private Use Area
)

var (
	// A placeholder alone on a line is wrapped in a paragraph by Markdown.
	stashParagraph = regexp.MustCompile(`<p>` + stashStart + `(\d+)` + stashEnd + `</p>`)
	stashBare      = regexp.MustCompile(stashStart + `(\d+)` + stashEnd)
)

var _ Stash = (*HTMLStash)(nil)

// Stash holds rendered HTML aside while the surrounding page text is
// processed, returning a placeholder to put in its place.
type Stash interface {
	// Store registers html and returns its placeholder. Safe content is
	// restored verbatim; unsafe content is escaped.
	Store(html string, safe bool) string
}

type stashEntry struct {
	html string
	safe bool
}

// HTMLStash is a Stash whose placeholders pass through goldmark.
// It is safe for concurrent use.
type HTMLStash struct {
	mu      sync.Mutex
	entries []stashEntry
}

// NewHTMLStash creates an empty stash.
func NewHTMLStash() *HTMLStash {
	return &HTMLStash{}
}

// Store implements Stash.
func (s *HTMLStash) Store(content string, safe bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, stashEntry{html: content, safe: safe})
	return stashStart + strconv.Itoa(len(s.entries)-1) + stashEnd
}

// Len returns the number of stored entries.
func (s *HTMLStash) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Placeholders counts the placeholders in text.
func (s *HTMLStash) Placeholders(text string) int {
	return len(stashBare.FindAllStringIndex(text, -1))
}

// Restore replaces every placeholder in text with its stored HTML. A
// placeholder that Markdown wrapped in <p></p> loses the paragraph.
// Unknown placeholders are left as they are.
func (s *HTMLStash) Restore(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return text
	}
	text = stashParagraph.ReplaceAllStringFunc(text, func(m string) string {
		return s.lookup(stashParagraph.FindStringSubmatch(m)[1], m)
	})
	return stashBare.ReplaceAllStringFunc(text, func(m string) string {
		return s.lookup(stashBare.FindStringSubmatch(m)[1], m)
	})
}

func (s *HTMLStash) lookup(index, placeholder string) string {
	i, err := strconv.Atoi(index)
	if err != nil || i >= len(s.entries) {
		return placeholder
	}
	e := s.entries[i]
	if e.safe {
		return e.html
	}
	return html.EscapeString(e.html)
}
