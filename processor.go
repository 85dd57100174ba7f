package nbtag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nbtag/internal/assets"
	"github.com/alnah/go-nbtag/internal/export"
	"github.com/alnah/go-nbtag/internal/fileutil"
	"github.com/alnah/go-nbtag/internal/notebook"
)

// Types shared with Exporter implementations.
type (
	// Notebook is a loaded notebook document.
	Notebook = notebook.Notebook

	// ExportConfig controls one rendering.
	ExportConfig = export.Config

	// Resources holds the files and stylesheets produced by a rendering.
	Resources = export.Resources
)

// DefaultHighlightClass is the CSS class of highlighted notebook code blocks.
const DefaultHighlightClass = export.DefaultHighlightClass

// Exporter loads, slices and renders notebooks.
type Exporter interface {
	// Load reads a notebook. Returns an error wrapping ErrNotFound when the
	// file does not exist.
	Load(path string) (*Notebook, error)

	// Slice returns a copy of nb holding cells [start:end] with Python slice
	// semantics. A nil bound is open. nb is not modified.
	Slice(nb *Notebook, start, end *int) *Notebook

	// Render converts nb to an HTML fragment. Failures wrap ErrConversionFailed.
	// A nil *Resources means the fragment has no outputs and no stylesheets.
	Render(ctx context.Context, nb *Notebook, cfg ExportConfig) (string, *Resources, error)
}

// headerMarkupProvider is implemented by exporters that contribute markup
// to the shared header after the stylesheets.
type headerMarkupProvider interface {
	HeaderMarkup() string
}

// Compile-time interface implementation checks.
var (
	_ Exporter             = (*export.HTMLExporter)(nil)
	_ headerMarkupProvider = (*export.HTMLExporter)(nil)
)

// Processor expands notebook directives into HTML fragments, writing
// extracted outputs and the shared header as side effects.
// A Processor is safe for concurrent use if its Exporter and Stash are.
type Processor struct {
	cfg         processorConfig
	exporter    Exporter
	exporterSet bool
	header      *HeaderWriter
	outputs     *OutputWriter
	stash       Stash
	logger      *slog.Logger
}

// NewProcessor creates a Processor. Without options, notebooks are read from
// content/notebooks, outputs are extracted to downloads/notebooks and written
// under output, and the header goes to _nb_header.html.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg: processorConfig{
			contentDir:  DefaultContentDir,
			notebookDir: DefaultNotebookDir,
			outputDir:   DefaultOutputDir,
			outputRoot:  DefaultOutputRoot,
			headerPath:  DefaultHeaderPath,
			style:       export.DefaultStyle,
			templateSet: assets.DefaultTemplateSetName,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.exporterSet && p.exporter == nil {
		return nil, ErrNilExporter
	}
	if p.exporter == nil {
		exp, err := p.newHTMLExporter()
		if err != nil {
			return nil, err
		}
		p.exporter = exp
	}
	if p.header == nil {
		p.header = NewHeaderWriter(p.cfg.headerPath)
	}
	if p.stash == nil {
		p.stash = NewHTMLStash()
	}
	p.outputs = NewOutputWriter(p.cfg.outputRoot)

	return p, nil
}

func (p *Processor) newHTMLExporter() (*export.HTMLExporter, error) {
	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if p.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(p.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		if resolver.HasCustomLoader() {
			p.logger.Debug("using custom assets", slog.String("path", p.cfg.assetPath))
		}
		loader = resolver
	}

	exp, err := export.NewHTMLExporter(
		export.WithAssetLoader(loader),
		export.WithTemplateSet(p.cfg.templateSet),
		export.WithStyle(p.cfg.style),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing exporter: %w", err)
	}
	return exp, nil
}

// Stash returns the stash fragments are registered with.
func (p *Processor) Stash() Stash {
	return p.stash
}

// HeaderWriter returns the shared header writer.
func (p *Processor) HeaderWriter() *HeaderWriter {
	return p.header
}

// Process expands one directive, given as the text between "notebook" and
// the closing tag marker. It returns the stash placeholder of the rendered
// fragment.
//
// Errors wrap ErrMalformedDirective, ErrNotFound (checked before any
// conversion), ErrConversionFailed or ErrIO.
func (p *Processor) Process(ctx context.Context, markup string) (string, error) {
	d, err := ParseDirective(markup)
	if err != nil {
		return "", err
	}

	nbPath := p.NotebookPath(d.Src)
	if !fileutil.FileExists(nbPath) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, nbPath)
	}

	logger := p.logger.With(slog.String("directive", d.String()))
	logger.Debug("rendering notebook", slog.String("path", nbPath))

	nb, err := p.exporter.Load(nbPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	logger.Debug("loaded notebook", slog.Int("cells", len(nb.Cells)), slog.String("kernel", nb.Language()))

	start := d.Start
	lo, _ := notebook.Bounds(len(nb.Cells), &start, d.End)
	sliced := p.exporter.Slice(nb, &start, d.End)

	cfg := ExportConfig{
		CellOffset:     lo,
		Language:       d.Language,
		HighlightClass: DefaultHighlightClass,
	}
	if p.cfg.outputDir != "" {
		tmpl, err := p.outputFilenameTemplate(nbPath, d.Src)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrIO, err)
		}
		cfg.ExtractOutputs = true
		cfg.OutputFilenameTemplate = tmpl
	}

	body, res, err := p.exporter.Render(ctx, sliced, cfg)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", nbPath, err)
	}
	if res == nil {
		res = &Resources{}
	}

	written, err := p.outputs.WriteOutputs(res.Outputs)
	if err != nil {
		return "", err
	}
	if len(written) > 0 {
		logger.Debug("wrote notebook outputs", slog.Int("count", len(written)), slog.String("root", p.outputs.Root()))
	}

	var markupBlock string
	if hp, ok := p.exporter.(headerMarkupProvider); ok {
		markupBlock = hp.HeaderMarkup()
	}
	wrote, err := p.header.WriteOnce(res.Inlining.CSS, markupBlock)
	if err != nil {
		return "", err
	}
	if wrote {
		logger.Info("writing notebook styles: include this file in the theme head", slog.String("path", p.header.Path()))
	}

	return p.stash.Store(body, true), nil
}

// NotebookPath resolves a directive source path under the notebook directory.
func (p *Processor) NotebookPath(src string) string {
	return filepath.Join(p.cfg.contentDir, p.cfg.notebookDir, src)
}

// outputFilenameTemplate names extracted outputs after the notebook, relative
// to the notebook's directory:
// <relpath(content/outputDir, dir(nbPath))>/<src without extension>_{unique_key}_{cell_index}_{index}{extension}.
func (p *Processor) outputFilenameTemplate(nbPath, src string) (string, error) {
	prefix := filepath.Join(p.cfg.contentDir, p.cfg.outputDir)
	rel, err := filepath.Rel(filepath.Dir(nbPath), prefix)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.ToSlash(src), path.Ext(src))
	return path.Join(filepath.ToSlash(rel), stem) + "_{unique_key}_{cell_index}_{index}{extension}", nil
}
