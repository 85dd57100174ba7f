package nbtag

import (
	"errors"

	"github.com/alnah/go-nbtag/internal/assets"
	"github.com/alnah/go-nbtag/internal/export"
	"github.com/alnah/go-nbtag/internal/notebook"
)

// Sentinel errors for directive processing.
var (
	// ErrMalformedDirective indicates the directive text does not match Syntax.
	ErrMalformedDirective = errors.New("malformed notebook directive")

	// ErrNotFound indicates the referenced notebook file does not exist.
	ErrNotFound = notebook.ErrNotFound

	// ErrConversionFailed indicates the notebook could not be parsed or rendered.
	ErrConversionFailed = export.ErrConversionFailed

	// ErrIO indicates an extracted output or the header file could not be written.
	ErrIO = errors.New("writing notebook output failed")

	// ErrNilExporter indicates WithExporter was given a nil exporter.
	ErrNilExporter = errors.New("exporter cannot be nil")

	// Asset loading errors.
	ErrStyleNotFound         = assets.ErrStyleNotFound
	ErrTemplateSetNotFound   = assets.ErrTemplateSetNotFound
	ErrIncompleteTemplateSet = assets.ErrIncompleteTemplateSet
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
