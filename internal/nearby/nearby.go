// Package nearby answers "what help is close to this location" from a
// static directory of hospitals, banks and transport hubs.
package nearby

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed services.yaml
var bundled []byte

var (
	ErrNoServices      = errors.New("no services found")
	ErrInvalidCategory = errors.New("invalid service category")
)

type Category string

const (
	CategoryHealth    Category = "health"
	CategoryFinance   Category = "finance"
	CategoryTransport Category = "transport"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHealth, CategoryFinance, CategoryTransport:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

type Service struct {
	Name     string `yaml:"name" json:"name"`
	Address  string `yaml:"address" json:"address"`
	Distance string `yaml:"distance" json:"distance"`
}

// Directory maps location -> category -> services. It is read-only after
// construction.
type Directory struct {
	entries map[string]map[Category][]Service
}

// Default returns the bundled directory.
func Default() (*Directory, error) {
	return Parse(bundled)
}

// LoadFile reads a directory from a YAML file with the same layout as the
// bundled one.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read services file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Directory, error) {
	var entries map[string]map[Category][]Service
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse services: %w", err)
	}
	for loc, cats := range entries {
		for c := range cats {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: %q under %s", ErrInvalidCategory, c, loc)
			}
		}
	}
	return &Directory{entries: entries}, nil
}

// Lookup returns the services for a location and category. Location
// matching is exact. ErrNoServices means the pair is not in the directory;
// a pair configured with no services yields an empty list.
func (d *Directory) Lookup(location string, category Category) ([]Service, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	services, ok := d.entries[location][category]
	if !ok {
		return nil, fmt.Errorf("%w: no %s services data available for %s", ErrNoServices, category, location)
	}
	out := make([]Service, len(services))
	copy(out, services)
	return out, nil
}

// Locations lists every location with at least one entry, sorted.
func (d *Directory) Locations() []string {
	out := make([]string, 0, len(d.entries))
	for loc := range d.entries {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}
