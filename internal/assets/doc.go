// Package assets provides the stylesheet and HTML templates used to render
// notebooks.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the exporter. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is
// not found, so a site theme can override only the cell template and keep
// the built-in stylesheet.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # Notebook stylesheet (e.g., notebook.css)
//	└── templates/
//	    └── {name}/
//	        ├── cell.html        # html/template rendering the cell sequence
//	        └── header.html      # Markup appended to the shared header file
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
