package assets

// AssetLoader defines the contract for loading stylesheets and template sets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the cell and header templates of a set.
	// Returns ErrTemplateSetNotFound if the set doesn't exist and
	// ErrIncompleteTemplateSet if only part of it is present.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
