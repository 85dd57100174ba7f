package assets

import (
	"embed"
	"fmt"
	"path"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplateSet loads an embedded template set by name.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("templates", name)
	cell, cellErr := templates.ReadFile(path.Join(dir, CellTemplateFile))
	header, headerErr := templates.ReadFile(path.Join(dir, HeaderTemplateFile))

	if cellErr != nil && headerErr != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if cellErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, CellTemplateFile)
	}
	if headerErr != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, HeaderTemplateFile)
	}

	return &TemplateSet{Name: name, Cell: string(cell), Header: string(header)}, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
