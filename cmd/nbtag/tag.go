package main

import (
	"context"
	"fmt"
	"strings"

	nbtag "github.com/alnah/go-nbtag"
	"github.com/alnah/go-nbtag/internal/hints"
)

// runTagCmd renders a single directive and prints the fragment to stdout.
// The markup is the directive text without the surrounding tag, for example
// "demo.ipynb cells[1:3]".
func runTagCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseTagFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrMissingMarkup
	}

	cfg, err := prepareConfig(flags.common, flags.site, flags.assets, flags.changed)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	stash := nbtag.NewHTMLStash()
	proc, err := newProcessor(cfg, logger, stash)
	if err != nil {
		return withHint(err, cfg, flags.common.config)
	}

	placeholder, err := proc.Process(ctx, strings.Join(positional, " "))
	if err != nil {
		return withHint(err, cfg, flags.common.config)
	}

	fmt.Fprintln(env.Stdout, stash.Restore(placeholder))

	if proc.HeaderWriter().Written() && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s%s\n", proc.HeaderWriter().Path(), hints.ForHeaderFile(proc.HeaderWriter().Path()))
	}
	return nil
}
