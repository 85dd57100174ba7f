package export

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighting defaults.
const (
	DefaultHighlightClass = "highlight-ipynb"
	DefaultLanguage       = "ipython"
	DefaultStyle          = "pygments"
)

// languageAliases maps notebook language tags to chroma lexer names.
var languageAliases = map[string]string{
	"ipython":  "python",
	"ipython2": "python2",
	"ipython3": "python",
	"py3":      "python",
	"jl":       "julia",
}

// Highlighter renders source code as class-annotated HTML.
// Highlighted blocks are wrapped in <div class="{class}"><pre class="ipynb">
// so site stylesheets can target notebook code separately from other code.
type Highlighter struct {
	class     string
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a Highlighter for the given wrapper class and chroma
// style. Empty values select DefaultHighlightClass and DefaultStyle.
func NewHighlighter(class, styleName string) *Highlighter {
	if class == "" {
		class = DefaultHighlightClass
	}
	class = strings.TrimPrefix(class, ".")
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Highlighter{
		class: class,
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithPreWrapper(notebookPreWrapper{class: class}),
		),
	}
}

// Class returns the wrapper CSS class.
func (h *Highlighter) Class() string {
	return h.class
}

// FormatOptions returns chroma options producing the same markup, for use by
// Markdown fenced code highlighting.
func (h *Highlighter) FormatOptions() []chromahtml.Option {
	return []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.WithPreWrapper(notebookPreWrapper{class: h.class}),
	}
}

// Highlight renders source in the given language. An empty language selects
// DefaultLanguage; unknown languages are rendered as plain text.
func (h *Highlighter) Highlight(source, language string) (string, error) {
	iterator, err := lexerFor(language).Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenising %s source: %w", language, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s source: %w", language, err)
	}
	return buf.String(), nil
}

// StyleCSS returns the chroma stylesheet scoped to the wrapper class.
func (h *Highlighter) StyleCSS() (string, error) {
	var raw bytes.Buffer
	if err := h.formatter.WriteCSS(&raw, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(&raw)
	for scanner.Scan() {
		line := scanner.Text()
		// The background rule targets a bare ".bg" selector that would leak
		// into the site theme.
		if strings.HasPrefix(line, "/* Background */") {
			continue
		}
		out.WriteString(strings.ReplaceAll(line, ".chroma", "."+h.class))
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scoping highlight CSS: %w", err)
	}
	return out.String(), nil
}

// lexerFor resolves a notebook language tag to a chroma lexer.
func lexerFor(language string) chroma.Lexer {
	name := strings.ToLower(strings.TrimSpace(language))
	name = strings.TrimLeft(name, "-")
	if name == "" {
		name = DefaultLanguage
	}
	if alias, ok := languageAliases[name]; ok {
		name = alias
	}

	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// notebookPreWrapper emits the notebook block markup instead of chroma's
// default <pre class="chroma">.
type notebookPreWrapper struct {
	class string
}

func (w notebookPreWrapper) Start(_ bool, _ string) string {
	return `<div class="` + w.class + `"><pre class="ipynb">`
}

func (w notebookPreWrapper) End(_ bool) string {
	return "</pre></div>"
}
