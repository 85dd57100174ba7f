package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-nbtag/internal/assets"
	"github.com/alnah/go-nbtag/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRequired   = errors.New("field is required")
	ErrUnknownStyle    = errors.New("unknown highlight style")
)

// MaxPathLength bounds every path field.
const MaxPathLength = 4096

// userConfigDirName is the directory searched under the user config directory.
const userConfigDirName = "go-nbtag"

// Config holds the site layout and rendering settings.
type Config struct {
	Content   ContentConfig   `yaml:"content"`
	Notebook  NotebookConfig  `yaml:"notebook"`
	Output    OutputConfig    `yaml:"output"`
	Header    HeaderConfig    `yaml:"header"`
	Assets    AssetsConfig    `yaml:"assets"`
	Highlight HighlightConfig `yaml:"highlight"`
}

// ContentConfig locates the site sources.
type ContentConfig struct {
	Dir string `yaml:"dir"` // Site content directory (default: "content")
}

// NotebookConfig locates notebooks and their extracted outputs.
type NotebookConfig struct {
	Dir    string `yaml:"dir"`    // Relative to content.dir (default: "notebooks")
	Output string `yaml:"output"` // Relative to content.dir; "" inlines images (default: "downloads/notebooks")
}

// OutputConfig defines where generated files are written.
type OutputConfig struct {
	Root string `yaml:"root"` // Extracted outputs are written under this directory (default: "output")
}

// HeaderConfig defines the shared header file.
type HeaderConfig struct {
	Path string `yaml:"path"` // Default: "_nb_header.html"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"`    // Empty = use embedded assets
	TemplateSet string `yaml:"templateSet"` // Default: "default"
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (default: "pygments")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Content:   ContentConfig{Dir: "content"},
		Notebook:  NotebookConfig{Dir: "notebooks", Output: "downloads/notebooks"},
		Output:    OutputConfig{Root: "output"},
		Header:    HeaderConfig{Path: "_nb_header.html"},
		Assets:    AssetsConfig{TemplateSet: assets.DefaultTemplateSetName},
		Highlight: HighlightConfig{Style: "pygments"},
	}
}

// Validate checks required fields, lengths and names.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"content.dir", c.Content.Dir},
		{"notebook.dir", c.Notebook.Dir},
		{"output.root", c.Output.Root},
		{"header.path", c.Header.Path},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, f.name)
		}
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("notebook.output", c.Notebook.Output, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if strings.HasSuffix(c.Header.Path, "/") || strings.HasSuffix(c.Header.Path, "\\") {
		return fmt.Errorf("header.path: %q names a directory, not a file", c.Header.Path)
	}

	if c.Assets.TemplateSet != "" {
		if err := assets.ValidateAssetName(c.Assets.TemplateSet); err != nil {
			return fmt.Errorf("assets.templateSet: %w", err)
		}
	}

	if c.Highlight.Style != "" && !slices.Contains(styles.Names(), c.Highlight.Style) {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, c.Highlight.Style)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// HighlightStyles lists the available highlight style names.
func HighlightStyles() []string {
	return styles.Names()
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations LoadConfig tries for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, userConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-nbtag/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
