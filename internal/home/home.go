// Package home manages the copyforge home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the copyforge home directory.
	DefaultDirName = ".copyforge"

	// TemplatesDirName is the subdirectory for user asset templates.
	TemplatesDirName = "templates"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// CatalogFileName is the default content catalog file name.
	CatalogFileName = "catalog.yaml"
)

// Dir represents the copyforge home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.copyforge).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// TemplatesPath returns the path to the user templates directory.
func (d *Dir) TemplatesPath() string {
	return filepath.Join(d.path, TemplatesDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// CatalogPath returns the path to the default content catalog.
func (d *Dir) CatalogPath() string {
	return filepath.Join(d.path, CatalogFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.TemplatesPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// CatalogExists returns true if the catalog file exists in the home directory.
func (d *Dir) CatalogExists() bool {
	_, err := os.Stat(d.CatalogPath())
	return err == nil
}
