// Package loader reads view documents from disk.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"servermap/internal/codec"
	"servermap/internal/domain"
)

// LoadViews reads a view document, choosing the codec from the file
// extension (.json, .yaml or .yml).
func LoadViews(path string) (*domain.ViewSet, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, ok := codec.Lookup(format)
	if !ok {
		return nil, fmt.Errorf("unsupported view file extension %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	set, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
