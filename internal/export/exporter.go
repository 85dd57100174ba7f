package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-nbtag/internal/assets"
	"github.com/alnah/go-nbtag/internal/notebook"
)

// ErrConversionFailed indicates the notebook could not be rendered to HTML.
var ErrConversionFailed = errors.New("notebook conversion failed")

// ansiEscape matches terminal color sequences found in tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Config controls one notebook rendering.
type Config struct {
	// CellOffset is the index, in the unsliced notebook, of the first cell
	// being rendered. Extracted filenames and cell anchors use original indices
	// so two slices of the same notebook never produce colliding names.
	CellOffset int

	// Language overrides the highlighting language of code cells.
	// Empty means the notebook's kernel language.
	Language string

	// ExtractOutputs moves binary outputs into Resources.Outputs instead of
	// inlining them as data URIs.
	ExtractOutputs bool

	// OutputFilenameTemplate names extracted outputs (see OutputFilename).
	OutputFilenameTemplate string

	// UniqueKey fills the {unique_key} placeholder; defaults to DefaultUniqueKey.
	UniqueKey string

	// HighlightClass is the CSS class of highlighted blocks; the generated
	// highlight stylesheet is scoped to it.
	HighlightClass string
}

func (c Config) uniqueKey() string {
	if c.UniqueKey == "" {
		return DefaultUniqueKey
	}
	return c.UniqueKey
}

// Resources holds everything produced alongside the HTML body.
type Resources struct {
	// Outputs maps extracted file names (relative, slash-separated) to content.
	Outputs map[string][]byte

	// Inlining carries the stylesheets the body depends on.
	Inlining Inlining
}

// Inlining groups stylesheet text blocks, in application order.
type Inlining struct {
	CSS []string
}

// Option configures an HTMLExporter.
type Option func(*HTMLExporter)

// WithAssetLoader sets the loader for the stylesheet and cell templates.
func WithAssetLoader(loader assets.AssetLoader) Option {
	return func(e *HTMLExporter) {
		e.loader = loader
	}
}

// WithTemplateSet selects the template set by name.
func WithTemplateSet(name string) Option {
	return func(e *HTMLExporter) {
		e.templateSet = name
	}
}

// WithStyle selects the chroma style used for highlighting.
func WithStyle(name string) Option {
	return func(e *HTMLExporter) {
		e.style = name
	}
}

// HTMLExporter renders notebooks to HTML fragments.
type HTMLExporter struct {
	loader      assets.AssetLoader
	templateSet string
	style       string
	tmpl        *template.Template
	header      string
	baseCSS     string
}

// NewHTMLExporter creates an exporter, loading its stylesheet and templates.
func NewHTMLExporter(opts ...Option) (*HTMLExporter, error) {
	e := &HTMLExporter{
		loader:      assets.NewEmbeddedLoader(),
		templateSet: assets.DefaultTemplateSetName,
		style:       DefaultStyle,
	}
	for _, opt := range opts {
		opt(e)
	}

	ts, err := e.loader.LoadTemplateSet(e.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set: %w", err)
	}
	e.tmpl, err = template.New(assets.CellTemplateFile).Parse(ts.Cell)
	if err != nil {
		return nil, fmt.Errorf("parsing cell template: %w", err)
	}
	e.header = ts.Header

	e.baseCSS, err = e.loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading notebook style: %w", err)
	}

	return e, nil
}

// HeaderMarkup returns the supplementary markup of the template set, meant to
// follow the stylesheets in the shared header file.
func (e *HTMLExporter) HeaderMarkup() string {
	return e.header
}

// Load reads a notebook from disk.
func (e *HTMLExporter) Load(path string) (*notebook.Notebook, error) {
	return notebook.Load(path)
}

// Slice selects cells [start:end] into a new notebook.
func (e *HTMLExporter) Slice(nb *notebook.Notebook, start, end *int) *notebook.Notebook {
	return notebook.Slice(nb, start, end)
}

// Render converts nb to an HTML body and its resources. nb is not modified.
// All failures wrap ErrConversionFailed.
func (e *HTMLExporter) Render(ctx context.Context, nb *notebook.Notebook, cfg Config) (string, *Resources, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if nb == nil {
		return "", nil, fmt.Errorf("%w: nil notebook", ErrConversionFailed)
	}

	work := nb.Clone()
	res := &Resources{Outputs: map[string][]byte{}}

	highlighter := NewHighlighter(cfg.HighlightClass, e.style)
	styleCSS, err := highlighter.StyleCSS()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	res.Inlining.CSS = []string{e.baseCSS, styleCSS}

	if cfg.ExtractOutputs {
		if err := extractOutputs(work, cfg, res); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
	}

	r := &cellRenderer{
		cfg:         cfg,
		res:         res,
		highlighter: highlighter,
		markdown:    newMarkdownRenderer(highlighter, e.style),
		language:    cfg.Language,
	}
	if r.language == "" {
		r.language = DefaultLanguage
	}

	view := pageView{Cells: make([]cellView, 0, len(work.Cells))}
	for i, cell := range work.Cells {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		cv, err := r.renderCell(cell, cfg.CellOffset+i)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
		view.Cells = append(view.Cells, cv)
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, view); err != nil {
		return "", nil, fmt.Errorf("%w: executing cell template: %v", ErrConversionFailed, err)
	}
	return buf.String(), res, nil
}

// pageView is the data passed to the cell template.
type pageView struct {
	Cells []cellView
}

type cellView struct {
	Index     int
	Type      string
	Prompt    string
	Input     template.HTML
	HTML      template.HTML
	Outputs   []outputView
	Collapsed bool
}

type outputView struct {
	Prompt string
	Class  string
	Body   template.HTML
}

// cellRenderer holds the per-Render state used to build cell views.
type cellRenderer struct {
	cfg         Config
	res         *Resources
	highlighter *Highlighter
	markdown    *markdownRenderer
	language    string
}

func (r *cellRenderer) renderCell(cell notebook.Cell, index int) (cellView, error) {
	cv := cellView{Index: index, Type: cell.Type}

	switch cell.Type {
	case notebook.CellCode:
		cv.Prompt = prompt("In", cell.ExecutionCount)
		input, err := r.highlighter.Highlight(cell.Source.String(), r.language)
		if err != nil {
			return cv, fmt.Errorf("cell %d: %w", index, err)
		}
		cv.Input = template.HTML(input) // #nosec G203 -- chroma escapes source text
		cv.Collapsed = isCollapsed(cell)
		for j, out := range cell.Outputs {
			ov, err := r.renderOutput(out)
			if err != nil {
				return cv, fmt.Errorf("cell %d output %d: %w", index, j, err)
			}
			cv.Outputs = append(cv.Outputs, ov...)
		}

	case notebook.CellMarkdown:
		body, err := r.markdown.Render(cell.Source.String())
		if err != nil {
			return cv, fmt.Errorf("cell %d: %w", index, err)
		}
		if len(cell.Attachments) > 0 {
			resolve, err := resolveAttachments(cell, index, r.cfg, r.res)
			if err != nil {
				return cv, err
			}
			if body, err = RewriteAttachments(body, resolve); err != nil {
				return cv, fmt.Errorf("cell %d attachments: %w", index, err)
			}
		}
		cv.HTML = template.HTML(body) // #nosec G203 -- notebook Markdown is trusted author content

	case notebook.CellRaw:
		if isHTMLRaw(cell) {
			cv.HTML = template.HTML(cell.Source.String()) // #nosec G203 -- raw HTML cell by definition
		}
	}
	return cv, nil
}

func (r *cellRenderer) renderOutput(out notebook.Output) ([]outputView, error) {
	switch out.Type {
	case notebook.OutputStream:
		name := out.Name
		if name == "" {
			name = "stdout"
		}
		return []outputView{{
			Class: "output_subarea output_stream output_" + name + " output_text",
			Body:  preformatted(out.Text.String()),
		}}, nil

	case notebook.OutputError:
		tb := strings.Join(out.Traceback, "\n")
		if tb == "" {
			tb = out.EName + ": " + out.EValue
		}
		return []outputView{{
			Class: "output_subarea output_text output_error",
			Body:  preformatted(ansiEscape.ReplaceAllString(tb, "")),
		}}, nil

	case notebook.OutputExecuteResult, notebook.OutputDisplayData:
		return r.renderRich(out)
	}
	return nil, nil
}

// renderRich renders the highest-priority representation of a MIME bundle,
// preceded by any JavaScript payload.
func (r *cellRenderer) renderRich(out notebook.Output) ([]outputView, error) {
	var views []outputView
	outPrompt := ""
	if out.Type == notebook.OutputExecuteResult {
		outPrompt = prompt("Out", out.ExecutionCount)
	}

	if js, ok := out.Data["application/javascript"]; ok {
		views = append(views, outputView{
			Class: "output_subarea output_javascript",
			Body:  template.HTML(`<script type="text/javascript">` + "\n" + js + "\n</script>"), // #nosec G203 -- notebook output
		})
	}

	body, class, err := r.richBody(out)
	if err != nil {
		return nil, err
	}
	if class != "" {
		views = append(views, outputView{Prompt: outPrompt, Class: class, Body: body})
	}
	return views, nil
}

func (r *cellRenderer) richBody(out notebook.Output) (template.HTML, string, error) {
	data := out.Data
	if v, ok := data["text/html"]; ok {
		return template.HTML(v), "output_html rendered_html output_subarea", nil // #nosec G203 -- notebook output
	}
	if v, ok := data["text/markdown"]; ok {
		body, err := r.markdown.Render(v)
		if err != nil {
			return "", "", err
		}
		return template.HTML(body), "output_markdown rendered_html output_subarea", nil // #nosec G203 -- rendered Markdown
	}
	if v, ok := data["text/latex"]; ok {
		return template.HTML(html.EscapeString(v)), "output_latex output_subarea", nil // #nosec G203 -- escaped
	}
	if v, ok := data["image/svg+xml"]; ok {
		if name, extracted := extractedName(out, "image/svg+xml"); extracted {
			return imgTag(name, mimeMetadata(out, "image/svg+xml")), "output_svg output_subarea", nil
		}
		return template.HTML(v), "output_svg output_subarea", nil // #nosec G203 -- notebook output
	}
	for _, mime := range []string{"image/png", "image/jpeg"} {
		v, ok := data[mime]
		if !ok {
			continue
		}
		class := "output_png output_subarea"
		if mime == "image/jpeg" {
			class = "output_jpeg output_subarea"
		}
		if name, extracted := extractedName(out, mime); extracted {
			return imgTag(name, mimeMetadata(out, mime)), class, nil
		}
		return imgTag(dataURI(mime, v), mimeMetadata(out, mime)), class, nil
	}
	if v, ok := data["text/plain"]; ok {
		return preformatted(v), "output_text output_subarea", nil
	}
	return "", "", nil
}

// prompt formats an execution prompt such as "In [3]:" or "Out[3]:".
func prompt(kind string, count *int) string {
	n := " "
	if count != nil {
		n = strconv.Itoa(*count)
	}
	if kind == "In" {
		return "In [" + n + "]:"
	}
	return kind + "[" + n + "]:"
}

func preformatted(text string) template.HTML {
	return template.HTML("<pre>" + html.EscapeString(text) + "</pre>") // #nosec G203 -- escaped
}

// imgTag renders an <img>, carrying width and height from output metadata.
func imgTag(src string, meta map[string]any) template.HTML {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(html.EscapeString(src))
	b.WriteString(`"`)
	for _, attr := range []string{"width", "height"} {
		if v, ok := meta[attr]; ok {
			fmt.Fprintf(&b, ` %s="%s"`, attr, html.EscapeString(fmt.Sprint(v)))
		}
	}
	b.WriteString(">")
	return template.HTML(b.String()) // #nosec G203 -- attributes escaped
}

// mimeMetadata returns the metadata for one MIME type of an output; nbformat
// keys image dimensions by MIME type.
func mimeMetadata(out notebook.Output, mime string) map[string]any {
	if m, ok := out.Metadata[mime].(map[string]any); ok {
		return m
	}
	return out.Metadata
}

// isCollapsed reports whether a code cell asks for its input to start hidden.
func isCollapsed(cell notebook.Cell) bool {
	if jup, ok := cell.Metadata["jupyter"].(map[string]any); ok {
		if v, ok := jup["source_hidden"].(bool); ok && v {
			return true
		}
	}
	tags, _ := cell.Metadata["tags"].([]any)
	for _, t := range tags {
		if t == "collapse" || t == "hide_input" {
			return true
		}
	}
	return false
}

// isHTMLRaw reports whether a raw cell is meant for HTML output.
func isHTMLRaw(cell notebook.Cell) bool {
	format, _ := cell.Metadata["format"].(string)
	if format == "" {
		format, _ = cell.Metadata["raw_mimetype"].(string)
	}
	switch strings.ToLower(format) {
	case "", "text/html":
		return true
	}
	return false
}
