package export

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Math placeholders use Private Use Area runes so they pass through goldmark
// untouched; the index between them selects the protected span.
const (
	mathStart = "\uE010" // U+E010: Private Use Area
	mathEnd   = "\uE011" // U+E011: Private Use Area
)

var (
	// Fenced code, inline code and math alternatives. Only the math matches
	// (the ones starting with "$") are protected; code is matched so that
	// dollar signs inside it are skipped.
	mathOrCode = regexp.MustCompile("(?m)(^```[^\\n]*\\n(?s:.*?)^```[ \\t]*$)|(^~~~[^\\n]*\\n(?s:.*?)^~~~[ \\t]*$)|(`[^`\\n]+`)|(\\$\\$(?s:.+?)\\$\\$)|(\\$[^$\\n]+?\\$)")

	mathPlaceholder = regexp.MustCompile(mathStart + `(\d+)` + mathEnd)
)

// markdownRenderer converts Markdown cell sources to HTML.
type markdownRenderer struct {
	md goldmark.Markdown
}

// newMarkdownRenderer creates a goldmark pipeline whose fenced code blocks are
// highlighted like code cells. Raw HTML is kept: notebook authors embed it in
// Markdown cells and expect it rendered.
func newMarkdownRenderer(h *Highlighter, styleName string) *markdownRenderer {
	if styleName == "" {
		styleName = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(styleName),
				highlighting.WithFormatOptions(h.FormatOptions()...),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &markdownRenderer{md: md}
}

// Render converts Markdown to HTML, leaving $...$ and $$...$$ spans intact
// (HTML-escaped) for MathJax.
func (r *markdownRenderer) Render(source string) (string, error) {
	protected, spans := protectMath(source)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(protected), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return restoreMath(buf.String(), spans), nil
}

func protectMath(source string) (string, []string) {
	var spans []string
	out := mathOrCode.ReplaceAllStringFunc(source, func(m string) string {
		if !strings.HasPrefix(m, "$") {
			return m
		}
		spans = append(spans, m)
		return mathStart + strconv.Itoa(len(spans)-1) + mathEnd
	})
	return out, spans
}

func restoreMath(rendered string, spans []string) string {
	if len(spans) == 0 {
		return rendered
	}
	return mathPlaceholder.ReplaceAllStringFunc(rendered, func(m string) string {
		idx, err := strconv.Atoi(m[len(mathStart) : len(m)-len(mathEnd)])
		if err != nil || idx >= len(spans) {
			return m
		}
		return html.EscapeString(spans[idx])
	})
}
