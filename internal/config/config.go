// Package config loads ssql connection profiles.
//
// A profile is a small YAML file:
//
//	database:
//	  driver: sqlite3
//	  dsn: ./shop.db
//	catalog: ./catalog
//
// Connection parameters are opaque to the query layer and passed to the
// driver unchanged. Relative catalog paths resolve against the profile's
// directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDriver is the only driver the store supports.
const DefaultDriver = "sqlite3"

// Profile is a parsed configuration file.
type Profile struct {
	Database Database `yaml:"database"`

	// Catalog is the directory holding the CUE table catalog.
	Catalog string `yaml:"catalog,omitempty"`
}

// Database holds pass-through connection parameters.
type Database struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn"`
}

// Load reads and validates a profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Catalog != "" && !filepath.IsAbs(p.Catalog) {
		p.Catalog = filepath.Join(filepath.Dir(path), p.Catalog)
	}
	return p, nil
}

// Parse decodes and validates profile YAML. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if p.Database.Driver == "" {
		p.Database.Driver = DefaultDriver
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile for unsupported values.
func (p *Profile) Validate() error {
	if p.Database.Driver != DefaultDriver {
		return fmt.Errorf("unsupported driver %q (only %s)", p.Database.Driver, DefaultDriver)
	}
	return nil
}

// Merge returns a copy of p with non-empty overrides applied. CLI flags are
// passed as overrides.
func (p *Profile) Merge(dsn, catalog string) *Profile {
	out := *p
	if dsn != "" {
		out.Database.DSN = dsn
	}
	if catalog != "" {
		out.Catalog = catalog
	}
	return &out
}
