package assets

import "errors"

// AssetResolver tries a custom theme directory first and falls back to the
// embedded assets when an asset is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// An empty customBasePath means embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a CSS style, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}
	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}
	if !isNotFoundError(err) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// LoadTemplateSet loads a template set, custom first.
// An incomplete custom set is an error, not a reason to fall back.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplateSet(name)
	}
	ts, err := r.custom.LoadTemplateSet(name)
	if err == nil {
		return ts, nil
	}
	if !isNotFoundError(err) {
		return nil, err
	}
	return r.embedded.LoadTemplateSet(name)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateSetNotFound)
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
