package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbtag <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Expand notebook tags in markdown pages and write HTML")
	fmt.Fprintln(w, "  tag        Render a single notebook directive to stdout")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nbtag help <command>' for details on a specific command.")
}

// printSiteFlags prints the flags shared by render and tag.
func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --content-dir <dir>   Site content directory (default: content)")
	fmt.Fprintln(w, "      --notebook-dir <dir>  Notebook directory, relative to content dir")
	fmt.Fprintln(w, "      --output-dir <dir>    Extracted output directory, relative to content dir")
	fmt.Fprintln(w, "      --output-root <dir>   Directory extracted files are written under")
	fmt.Fprintln(w, "      --header <path>       Shared header file (default: _nb_header.html)")
	fmt.Fprintln(w, "      --no-extract          Inline images as data URIs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name>        Chroma highlight style (default: pygments)")
	fmt.Fprintln(w, "      --template <name>     Cell template set (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles and template sets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging and timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbtag render <page.md|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expand {% notebook path [cells[start:end]] [language[lang]] %} tags in")
	fmt.Fprintln(w, "markdown pages and write one HTML document per page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each page)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file injected into every page")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printTagUsage prints usage for the tag command.
func printTagUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbtag tag <path> [cells[start:end]] [language[lang]] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one notebook directive and print the HTML fragment.")
	fmt.Fprintln(w, "The shared header is written on first use.")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "tag":
		printTagUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nbtag version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nbtag help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
