package nbtag

import "log/slog"

// Default directory layout, relative to the working directory.
const (
	DefaultContentDir  = "content"
	DefaultNotebookDir = "notebooks"
	DefaultOutputDir   = "downloads/notebooks"
)

// Option configures a Processor.
type Option func(*Processor)

// processorConfig holds the settings options write before NewProcessor
// builds the collaborators.
type processorConfig struct {
	contentDir  string
	notebookDir string
	outputDir   string
	outputRoot  string
	headerPath  string
	style       string
	assetPath   string
	templateSet string
}

// WithContentDir sets the site content directory notebooks and extracted
// outputs are located under.
func WithContentDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.contentDir = dir
	}
}

// WithNotebookDir sets the notebook directory, relative to the content directory.
func WithNotebookDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.notebookDir = dir
	}
}

// WithOutputDir sets the directory, relative to the content directory, that
// extracted outputs are linked from. An empty dir disables extraction: images
// are then inlined as data URIs.
func WithOutputDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.outputDir = dir
	}
}

// WithOutputRoot sets the directory extracted files are written under.
func WithOutputRoot(dir string) Option {
	return func(p *Processor) {
		p.cfg.outputRoot = dir
	}
}

// WithHeaderPath sets the shared header file path.
// Ignored when WithHeaderWriter is also given.
func WithHeaderPath(path string) Option {
	return func(p *Processor) {
		p.cfg.headerPath = path
	}
}

// WithHeaderWriter shares a HeaderWriter between processors, so the header is
// written once across all of them.
func WithHeaderWriter(h *HeaderWriter) Option {
	return func(p *Processor) {
		p.header = h
	}
}

// WithStash sets where rendered fragments are registered.
// Defaults to a new HTMLStash.
func WithStash(s Stash) Option {
	return func(p *Processor) {
		p.stash = s
	}
}

// WithExporter replaces the built-in HTML exporter.
// WithStyle, WithAssetPath and WithTemplateSet have no effect then.
func WithExporter(e Exporter) Option {
	return func(p *Processor) {
		p.exporter = e
		p.exporterSet = true
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStyle sets the chroma style used for code highlighting.
func WithStyle(name string) Option {
	return func(p *Processor) {
		p.cfg.style = name
	}
}

// WithAssetPath sets a directory of custom styles and template sets that
// take precedence over the embedded ones.
func WithAssetPath(path string) Option {
	return func(p *Processor) {
		p.cfg.assetPath = path
	}
}

// WithTemplateSet selects the cell template set by name.
func WithTemplateSet(name string) Option {
	return func(p *Processor) {
		p.cfg.templateSet = name
	}
}
