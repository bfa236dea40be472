// Package catalog loads the listings the store is seeded with at startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Entry is one seed listing.
type Entry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Claimed     bool   `yaml:"claimed"`
}

type document struct {
	Items []Entry `yaml:"items"`
}

// Default returns the built-in catalog.
func Default() ([]Entry, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates every entry.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	for i, e := range doc.Items {
		if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Description) == "" {
			return nil, fmt.Errorf("catalog entry %d: title and description required", i+1)
		}
	}
	return doc.Items, nil
}
