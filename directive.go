package nbtag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Syntax is the expected form of a notebook directive, quoted in parse errors.
const Syntax = "{% notebook /path/to/notebook.ipynb [ cells[start:end] ] [ language[language] ] %}"

// directivePattern matches the directive arguments: a path, an optional cell
// range and an optional highlighting language, in that order.
var directivePattern = regexp.MustCompile(
	`^\s*(?P<src>\S+)\s*` +
		`(?:cells\[(?P<start>-?[0-9]*):(?P<end>-?[0-9]*)\])?\s*` +
		`(?:language\[(?P<language>-?[a-z0-9+\-]*)\])?\s*$`,
)

// Directive is a parsed notebook directive.
type Directive struct {
	// Src is the notebook path, relative to the notebook directory.
	Src string

	// Start is the first selected cell; negative values count from the end.
	Start int

	// End is the cell after the last selected one; nil selects through the
	// last cell. Negative values count from the end.
	End *int

	// Language is the highlighting language. Empty uses the notebook kernel.
	Language string
}

// ParseDirective parses the arguments of a notebook directive, i.e. the text
// between "notebook" and the closing tag marker.
// Returns ErrMalformedDirective when markup does not match Syntax.
func ParseDirective(markup string) (Directive, error) {
	m := directivePattern.FindStringSubmatch(markup)
	if m == nil {
		return Directive{}, malformed(markup)
	}
	group := func(name string) string {
		return m[directivePattern.SubexpIndex(name)]
	}

	d := Directive{
		Src:      group("src"),
		Language: group("language"),
	}

	if s := group("start"); s != "" {
		start, err := parseBound(s)
		if err != nil {
			return Directive{}, malformed(markup)
		}
		d.Start = start
	}
	if s := group("end"); s != "" {
		end, err := parseBound(s)
		if err != nil {
			return Directive{}, malformed(markup)
		}
		d.End = &end
	}
	return d, nil
}

// parseBound parses a slice bound. Out-of-range values saturate to the
// nearest int; slicing clamps them to the notebook anyway.
func parseBound(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	return n, err
}

func malformed(markup string) error {
	return fmt.Errorf("%w: %q: expected syntax %s", ErrMalformedDirective, strings.TrimSpace(markup), Syntax)
}

// HasRange reports whether the directive selects a cell range.
func (d Directive) HasRange() bool {
	return d.Start != 0 || d.End != nil
}

// String renders the directive in canonical form, without tag markers.
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString(d.Src)
	if d.HasRange() {
		b.WriteString(" cells[")
		if d.Start != 0 {
			b.WriteString(strconv.Itoa(d.Start))
		}
		b.WriteString(":")
		if d.End != nil {
			b.WriteString(strconv.Itoa(*d.End))
		}
		b.WriteString("]")
	}
	if d.Language != "" {
		b.WriteString(" language[" + d.Language + "]")
	}
	return b.String()
}
