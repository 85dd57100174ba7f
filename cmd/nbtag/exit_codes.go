package main

import (
	"errors"
	"os"

	nbtag "github.com/alnah/go-nbtag"
	"github.com/alnah/go-nbtag/internal/config"
	"github.com/alnah/go-nbtag/internal/pipeline"
)

// Exit codes for the nbtag CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // All pages rendered
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, directive or asset names
	ExitIO         = 3 // Missing notebook or page, unwritable output
	ExitConversion = 4 // Notebook or page failed to convert
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Conversion errors (exit 4)
	if errors.Is(err, nbtag.ErrConversionFailed) ||
		errors.Is(err, pipeline.ErrHTMLConversion) {
		return ExitConversion
	}

	// I/O errors (exit 3)
	if errors.Is(err, nbtag.ErrNotFound) ||
		errors.Is(err, nbtag.ErrIO) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadPage) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteHTML) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrUnknownStyle) ||
		errors.Is(err, nbtag.ErrMalformedDirective) ||
		errors.Is(err, nbtag.ErrStyleNotFound) ||
		errors.Is(err, nbtag.ErrTemplateSetNotFound) ||
		errors.Is(err, nbtag.ErrIncompleteTemplateSet) ||
		errors.Is(err, nbtag.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrMissingMarkup) {
		return ExitUsage
	}

	return ExitGeneral
}
