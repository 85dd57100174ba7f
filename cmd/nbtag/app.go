package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	flag "github.com/spf13/pflag"

	nbtag "github.com/alnah/go-nbtag"
	"github.com/alnah/go-nbtag/internal/config"
	"github.com/alnah/go-nbtag/internal/hints"
)

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingMarkup  = errors.New("missing directive markup")
)

// directiveExample is shown in hints for malformed directives.
const directiveExample = "demo.ipynb cells[1:3] language[python]"

// commands lists the recognized command names.
var commands = []string{"render", "tag", "version", "help"}

// isCommand reports whether name is a recognized command.
func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

// runMain dispatches args[1:] to a command and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "go-nbtag %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "render":
		err = runRenderCmd(ctx, rest, env)
	case "tag":
		err = runTagCmd(ctx, rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// newProcessor builds a Processor from the merged config. Fragments are
// registered with stash.
func newProcessor(cfg *config.Config, logger *slog.Logger, stash nbtag.Stash) (*nbtag.Processor, error) {
	return nbtag.NewProcessor(
		nbtag.WithStash(stash),
		nbtag.WithContentDir(cfg.Content.Dir),
		nbtag.WithNotebookDir(cfg.Notebook.Dir),
		nbtag.WithOutputDir(cfg.Notebook.Output),
		nbtag.WithOutputRoot(cfg.Output.Root),
		nbtag.WithHeaderPath(cfg.Header.Path),
		nbtag.WithStyle(cfg.Highlight.Style),
		nbtag.WithAssetPath(cfg.Assets.BasePath),
		nbtag.WithTemplateSet(cfg.Assets.TemplateSet),
		nbtag.WithLogger(logger),
	)
}

// withHint appends an actionable hint to err when one applies.
func withHint(err error, cfg *config.Config, configName string) error {
	if err == nil {
		return nil
	}

	var hint string
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		hint = hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, config.ErrUnknownStyle), errors.Is(err, nbtag.ErrStyleNotFound):
		hint = hints.ForStyleNotFound(config.HighlightStyles())
	case errors.Is(err, nbtag.ErrMalformedDirective):
		hint = hints.ForMalformedDirective(directiveExample)
	case errors.Is(err, nbtag.ErrNotFound) && cfg != nil:
		hint = hints.ForNotebookNotFound(filepath.Join(cfg.Content.Dir, cfg.Notebook.Dir))
	case errors.Is(err, nbtag.ErrConversionFailed):
		hint = hints.ForConversion()
	case errors.Is(err, nbtag.ErrIO):
		hint = hints.ForOutputDirectory()
	}

	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// prepareConfig loads the config and applies the site and asset flags.
func prepareConfig(common commonFlags, site siteFlags, assets assetFlags, changed map[string]bool) (*config.Config, error) {
	cfg, err := loadConfig(common)
	if err != nil {
		return nil, withHint(fmt.Errorf("loading config: %w", err), nil, common.config)
	}

	mergeFlags(site, assets, changed, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, withHint(err, cfg, common.config)
	}
	return cfg, nil
}
