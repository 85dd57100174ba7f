package assets

// Template file names inside a template set directory.
const (
	CellTemplateFile   = "cell.html"
	HeaderTemplateFile = "header.html"
)

// TemplateSet holds the templates that shape a rendered notebook.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Cell   string // html/template source rendering the cell sequence
	Header string // Static markup appended to the shared header file
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in notebook stylesheet.
const DefaultStyleName = "notebook"
