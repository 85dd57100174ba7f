package nbtag_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	nbtag "github.com/alnah/go-nbtag"
)

const exampleNotebook = `{
 "nbformat": 4, "nbformat_minor": 2, "metadata": {},
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": "# Setup"},
  {"cell_type": "code", "execution_count": 1, "metadata": {}, "source": "1 + 1",
   "outputs": [{"output_type": "execute_result", "execution_count": 1, "metadata": {}, "data": {"text/plain": "2"}}]}
 ]
}`

// exampleSite writes a one-notebook site into a temporary directory.
func exampleSite() (string, error) {
	dir, err := os.MkdirTemp("", "nbtag-example")
	if err != nil {
		return "", err
	}
	nbDir := filepath.Join(dir, "content", "notebooks")
	if err := os.MkdirAll(nbDir, 0o755); err != nil {
		return "", err
	}
	return dir, os.WriteFile(filepath.Join(nbDir, "demo.ipynb"), []byte(exampleNotebook), 0o644)
}

// Example expands a notebook tag and restores the rendered fragment.
func Example() {
	dir, err := exampleSite()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	stash := nbtag.NewHTMLStash()
	proc, err := nbtag.NewProcessor(
		nbtag.WithContentDir(filepath.Join(dir, "content")),
		nbtag.WithHeaderPath(filepath.Join(dir, "_nb_header.html")),
		nbtag.WithOutputDir(""),
		nbtag.WithStash(stash),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	text, err := proc.Expand(context.Background(), "Intro\n\n{% notebook demo.ipynb cells[1:] %}\n")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := stash.Restore(text)
	fmt.Println(strings.Contains(html, `id="nb-cell-1"`), strings.Contains(html, `id="nb-cell-0"`))
	fmt.Println(proc.HeaderWriter().Written())
	// Output:
	// true false
	// true
}

// ExampleParseDirective shows how directive arguments are parsed.
func ExampleParseDirective() {
	d, err := nbtag.ParseDirective("course/week1.ipynb cells[-3:] language[julia]")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(d.Src, d.Start, d.End == nil, d.Language)
	// Output: course/week1.ipynb -3 true julia
}
