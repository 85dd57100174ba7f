package pipeline

// Notes:
// - PageConverter tests check structure and escaping, not exact Goldmark output.
// - Stash placeholders use Private Use Area runes; Goldmark must pass them through.

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "body { color: red; }", expected: "body { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation STYLE", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHeadInjection - Header markup placement in the document
// ---------------------------------------------------------------------------

func TestHeadInjection(t *testing.T) {
	t.Parallel()

	const markup = `<style type="text/css">x</style>`

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "before closing head",
			html: "<html><head><title>t</title></head><body></body></html>",
			want: "<html><head><title>t</title>" + markup + "</head><body></body></html>",
		},
		{
			name: "uppercase head",
			html: "<HTML><HEAD></HEAD></HTML>",
			want: "<HTML><HEAD>" + markup + "</HEAD></HTML>",
		},
		{
			name: "after body when no head",
			html: `<body class="x"><p>a</p></body>`,
			want: `<body class="x">` + markup + `<p>a</p></body>`,
		},
		{
			name: "prepended for fragments",
			html: "<p>a</p>",
			want: markup + "<p>a</p>",
		},
	}

	injector := &HeadInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectHead(context.Background(), tt.html, markup); got != tt.want {
				t.Errorf("InjectHead() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeadInjection_NoOp(t *testing.T) {
	t.Parallel()

	injector := &HeadInjection{}
	const page = "<html><head></head></html>"

	if got := injector.InjectHead(context.Background(), page, ""); got != page {
		t.Errorf("InjectHead(empty) = %q, want unchanged", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := injector.InjectHead(ctx, page, "<style></style>"); got != page {
		t.Errorf("InjectHead(canceled) = %q, want unchanged", got)
	}
}

func TestCSSInjection(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}
	got := injector.InjectCSS(context.Background(), "<html><head></head></html>", "a{}</style>")
	want := `<html><head><style>a{}<\/style></style></head></html>`
	if got != want {
		t.Errorf("InjectCSS() = %q, want %q", got, want)
	}

	if got := injector.InjectCSS(context.Background(), "<p></p>", ""); got != "<p></p>" {
		t.Errorf("InjectCSS(empty) = %q, want unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestPagePreprocessor - Line ending and blank line normalization
// ---------------------------------------------------------------------------

func TestPagePreprocessor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "CRLF", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone CR", input: "a\rb", want: "a\nb"},
		{name: "blank lines compressed", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "two newlines kept", input: "a\n\nb", want: "a\n\nb"},
		{name: "mixed", input: "a\r\n\r\n\r\n\r\nb", want: "a\n\nb"},
	}

	p := &PagePreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPagePreprocessor_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &PagePreprocessor{}
	if got := p.PreprocessMarkdown(ctx, "a\r\nb"); got != "a\r\nb" {
		t.Errorf("PreprocessMarkdown(canceled) = %q, want input unchanged", got)
	}
}

func TestPageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		fallback string
		want     string
	}{
		{name: "first heading", content: "intro\n# Notebook Demo\n# Second", fallback: "x", want: "Notebook Demo"},
		{name: "closing hashes trimmed", content: "# Title ##", fallback: "x", want: "Title"},
		{name: "level two ignored", content: "## Sub\ntext", fallback: "page", want: "page"},
		{name: "fenced heading ignored", content: "```\n# comment\n```\n# Real", fallback: "x", want: "Real"},
		{name: "no heading", content: "just text", fallback: "page", want: "page"},
		{name: "CRLF input", content: "# Windows\r\nbody", fallback: "x", want: "Windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PageTitle(tt.content, tt.fallback); got != tt.want {
				t.Errorf("PageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPageConverter - Goldmark conversion into a standalone document
// ---------------------------------------------------------------------------

func TestPageConverter_ToHTML(t *testing.T) {
	t.Parallel()

	c := NewPageConverter("")
	got, err := c.ToHTML(context.Background(), "# Hello\n\nSome *text*.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", "Hello & Co")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Hello &amp; Co</title>",
		`<h1 id="hello">Hello</h1>`,
		"<em>text</em>",
		"<table>",
		"</head>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToHTML() missing %q in:\n%s", want, got)
		}
	}
}

func TestPageConverter_CodeHighlighting(t *testing.T) {
	t.Parallel()

	c := NewPageConverter("monokai")
	got, err := c.ToHTML(context.Background(), "```python\nprint(1)\n```\n", "t")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("ToHTML() should highlight with chroma classes, got:\n%s", got)
	}
}

func TestPageConverter_RawHTMLOmitted(t *testing.T) {
	t.Parallel()

	c := NewPageConverter("")
	got, err := c.ToHTML(context.Background(), "<script>alert(1)</script>\n", "t")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("ToHTML() should not pass raw HTML through, got:\n%s", got)
	}
}

func TestPageConverter_PlaceholderSurvives(t *testing.T) {
	t.Parallel()

	const placeholder = "\uE0200\uE021"

	c := NewPageConverter("")
	got, err := c.ToHTML(context.Background(), "before\n\n"+placeholder+"\n\nafter\n", "t")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}
	if !strings.Contains(got, "<p>"+placeholder+"</p>") {
		t.Errorf("ToHTML() should keep placeholder in its own paragraph, got:\n%s", got)
	}
}

func TestPageConverter_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewPageConverter("")
	_, err := c.ToHTML(ctx, "# x", "t")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
