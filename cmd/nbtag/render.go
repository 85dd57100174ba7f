package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	nbtag "github.com/alnah/go-nbtag"
	"github.com/alnah/go-nbtag/internal/fileutil"
	"github.com/alnah/go-nbtag/internal/pipeline"
)

// Sentinel errors for render operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadPage         = errors.New("failed to read page")
	ErrReadCSS          = errors.New("failed to read CSS file")
	ErrWriteHTML        = errors.New("failed to write HTML file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// PageToRender represents a single page to process.
type PageToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult holds the outcome of a single page rendering.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Notebooks  int
	Err        error
	Duration   time.Duration
}

// renderParams groups collaborators shared across the batch.
type renderParams struct {
	proc       *nbtag.Processor
	stash      *nbtag.HTMLStash
	css        string
	preprocess pipeline.MarkdownPreprocessor
	converter  pipeline.HTMLConverter
	head       pipeline.HeadInjector
	styles     pipeline.CSSInjector
}

// runRenderCmd expands notebook directives in Markdown pages and writes one
// standalone HTML document per page.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}

	cfg, err := prepareConfig(flags.common, flags.site, flags.assets, flags.changed)
	if err != nil {
		return err
	}

	css, err := readCSS(flags.css)
	if err != nil {
		return err
	}

	var pages []PageToRender
	for _, input := range positional {
		found, err := discoverPages(input, flags.output)
		if err != nil {
			return fmt.Errorf("discovering pages: %w", err)
		}
		pages = append(pages, found...)
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no markdown pages in %s", ErrNoInput, strings.Join(positional, ", "))
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	stash := nbtag.NewHTMLStash()
	proc, err := newProcessor(cfg, logger, stash)
	if err != nil {
		return withHint(err, cfg, flags.common.config)
	}

	params := &renderParams{
		proc:       proc,
		stash:      stash,
		css:        css,
		preprocess: &pipeline.PagePreprocessor{},
		converter:  pipeline.NewPageConverter(cfg.Highlight.Style),
		head:       &pipeline.HeadInjection{},
		styles:     &pipeline.CSSInjection{},
	}

	results := renderBatch(ctx, pages, params)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		first := firstError(results)
		return fmt.Errorf("%d page(s) failed: %w", failed, withHint(first, cfg, flags.common.config))
	}
	return nil
}

// readCSS reads the --css file, if any.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// discoverPages finds the Markdown pages under inputPath.
func discoverPages(inputPath, outputDir string) ([]PageToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		return []PageToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var pages []PageToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}
		pages = append(pages, PageToRender{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})

	return pages, err
}

// resolveOutputPath determines the HTML output path for a page. Directory
// inputs keep their layout under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".html"

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// renderBatch renders pages in order, one at a time. Pages left when ctx is
// canceled fail with the context error.
func renderBatch(ctx context.Context, pages []PageToRender, params *renderParams) []RenderResult {
	results := make([]RenderResult, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			results = append(results, RenderResult{InputPath: page.InputPath, Err: err})
			continue
		}
		results = append(results, renderPage(ctx, page, params))
	}
	return results
}

// renderPage processes a single page and returns the result.
func renderPage(ctx context.Context, page PageToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  page.InputPath,
		OutputPath: page.OutputPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(page.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadPage, err))
	}

	text := params.preprocess.PreprocessMarkdown(ctx, string(content))
	expanded, err := params.proc.Expand(ctx, text)
	if err != nil {
		return fail(err)
	}
	result.Notebooks = params.stash.Placeholders(expanded)

	title := pipeline.PageTitle(text, strings.TrimSuffix(filepath.Base(page.InputPath), filepath.Ext(page.InputPath)))
	doc, err := params.converter.ToHTML(ctx, expanded, title)
	if err != nil {
		return fail(err)
	}
	doc = params.stash.Restore(doc)

	if result.Notebooks > 0 {
		header, err := os.ReadFile(params.proc.HeaderWriter().Path()) // #nosec G304 -- configured header path
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fail(fmt.Errorf("%w: reading header: %v", nbtag.ErrIO, err))
		}
		doc = params.head.InjectHead(ctx, doc, string(header))
	}
	doc = params.styles.InjectCSS(ctx, doc, params.css)

	if err := fileutil.WriteFile(page.OutputPath, []byte(doc)); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteHTML, err))
	}

	result.Duration = time.Since(start)
	return result
}

// firstError returns the first failure in results.
func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults outputs render results and returns the number of failures.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		succeeded++

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d notebooks, %v)\n", r.InputPath, r.OutputPath, r.Notebooks, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
