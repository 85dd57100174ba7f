package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nbtag/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds the site layout flags.
type siteFlags struct {
	contentDir  string
	notebookDir string
	outputDir   string
	outputRoot  string
	header      string
	noExtract   bool
}

// assetFlags holds asset-related flags (highlight style, templates, custom asset path).
type assetFlags struct {
	style       string // chroma style name
	templateSet string // Cell template set name
	assetPath   string // Override asset directory
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	site    siteFlags
	assets  assetFlags
	output  string
	css     string
	changed map[string]bool
}

// tagFlags holds all flags for the tag command.
type tagFlags struct {
	common  commonFlags
	site    siteFlags
	assets  assetFlags
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging and timing")
}

// addSiteFlags adds site layout flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.contentDir, "content-dir", "", "site content directory (default: content)")
	fs.StringVar(&f.notebookDir, "notebook-dir", "", "notebook directory relative to content dir (default: notebooks)")
	fs.StringVar(&f.outputDir, "output-dir", "", "extracted output directory relative to content dir")
	fs.StringVar(&f.outputRoot, "output-root", "", "directory extracted files are written under (default: output)")
	fs.StringVar(&f.header, "header", "", "shared header file (default: _nb_header.html)")
	fs.BoolVar(&f.noExtract, "no-extract", false, "inline images as data URIs instead of extracting them")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "chroma highlight style name")
	fs.StringVar(&f.templateSet, "template", "", "cell template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &renderFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory for HTML pages")
	fs.StringVar(&f.css, "css", "", "extra CSS file injected into every page")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)

	return f, fs.Args(), nil
}

// parseTagFlags parses tag command flags and returns positional args.
func parseTagFlags(args []string, usage io.Writer) (*tagFlags, []string, error) {
	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &tagFlags{}

	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printTagUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)

	return f, fs.Args(), nil
}

// changedFlags records which flags were set explicitly, so an empty
// --output-dir can disable extraction.
func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		changed[fl.Name] = true
	})
	return changed
}

// loadConfig loads the config named by --config, or the defaults.
func loadConfig(f commonFlags) (*config.Config, error) {
	if f.config == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(f.config)
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(site siteFlags, assets assetFlags, changed map[string]bool, cfg *config.Config) {
	// Site flags
	if site.contentDir != "" {
		cfg.Content.Dir = site.contentDir
	}
	if site.notebookDir != "" {
		cfg.Notebook.Dir = site.notebookDir
	}
	if changed["output-dir"] {
		cfg.Notebook.Output = site.outputDir
	}
	if site.outputRoot != "" {
		cfg.Output.Root = site.outputRoot
	}
	if site.header != "" {
		cfg.Header.Path = site.header
	}

	// Asset flags
	if assets.style != "" {
		cfg.Highlight.Style = assets.style
	}
	if assets.templateSet != "" {
		cfg.Assets.TemplateSet = assets.templateSet
	}
	if assets.assetPath != "" {
		cfg.Assets.BasePath = assets.assetPath
	}

	// Disable flags
	if site.noExtract {
		cfg.Notebook.Output = ""
	}
}
