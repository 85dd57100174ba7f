// Package nbtag embeds Jupyter notebooks in Markdown pages.
//
// # Quick Start
//
// A page references a notebook with a liquid-style tag:
//
//	{% notebook demo.ipynb cells[2:5] language[python] %}
//
// Create a Processor, expand the tags of a page source, and restore the
// rendered fragments once the surrounding Markdown has been converted:
//
//	stash := nbtag.NewHTMLStash()
//	proc, err := nbtag.NewProcessor(nbtag.WithContentDir("content"), nbtag.WithStash(stash))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := proc.Expand(ctx, page)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := markdownToHTML(text)
//	html = stash.Restore(html)
//
// # Directive Syntax
//
// The directive arguments are a notebook path, resolved under the content and
// notebook directories, an optional cell range and an optional highlighting
// language:
//
//	<path> [cells[<start>:<end>]] [language[<lang>]]
//
// Either range bound may be empty. Negative bounds count from the end and
// out-of-range bounds clamp, as with Python slices.
//
// # Side Effects
//
// Images found in cell outputs are extracted to files named after the
// notebook, the original cell index and the output index, written under the
// output root (WithOutputRoot). WithOutputDir("") inlines them instead.
//
// The first rendered notebook also writes a shared header file
// (_nb_header.html by default) holding the notebook and highlighting
// stylesheets plus supplementary scripts. Themes include it in every page
// head. Later notebooks never rewrite it, even if their stylesheets differ;
// share one HeaderWriter (WithHeaderWriter) to keep that guarantee across
// processors.
//
// # Custom Assets
//
// WithAssetPath points to a directory overriding the embedded assets:
//
//	assets/
//	├── styles/
//	│   └── notebook.css
//	└── templates/
//	    └── default/
//	        ├── cell.html
//	        └── header.html
package nbtag
