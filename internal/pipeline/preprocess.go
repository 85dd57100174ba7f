package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// ATX heading level 1
	titleHeading = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// PagePreprocessor applies transformations before Goldmark conversion.
type PagePreprocessor struct{}

// PreprocessMarkdown normalizes line endings and blank lines.
func (p *PagePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// PageTitle returns the text of the first level 1 heading, or fallback.
// Headings inside fenced code blocks are ignored.
func PageTitle(content, fallback string) string {
	inFence := false
	for line := range strings.SplitSeq(normalizeLineEndings(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := titleHeading.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return fallback
}
