package nbtag

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// TagName is the liquid tag name handled by Expand.
const TagName = "notebook"

// liquidTag matches a {% ... %} tag, possibly spanning lines.
var liquidTag = regexp.MustCompile(`(?s)\{%(.*?)%\}`)

// Expand replaces every {% notebook ... %} tag in text with the stash
// placeholder of its rendered fragment. Other liquid tags are left as they
// are. Processing stops at the first failing directive.
func (p *Processor) Expand(ctx context.Context, text string) (string, error) {
	locs := liquidTag.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		name, markup := splitTag(text[loc[2]:loc[3]])
		if name != TagName {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		placeholder, err := p.Process(ctx, markup)
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", text[loc[0]:loc[1]], err)
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(placeholder)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// splitTag separates the tag name from its markup.
func splitTag(inner string) (name, markup string) {
	inner = strings.TrimSpace(inner)
	idx := strings.IndexFunc(inner, isSpace)
	if idx < 0 {
		return inner, ""
	}
	return inner[:idx], inner[idx:]
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
