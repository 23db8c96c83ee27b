package importer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MappingConfig represents the YAML mapping configuration
type MappingConfig struct {
	Version int `yaml:"version"`
	// Sheets limits the import to the named sheets. Empty means every sheet.
	Sheets  []string                `yaml:"sheets"`
	Columns map[string]ColumnConfig `yaml:"columns"`
	Aliases map[string][]string     `yaml:"aliases"`
}

// ColumnConfig maps one header to a restaurant field.
type ColumnConfig struct {
	Field string `yaml:"field"`
}

// Fields lists the restaurant fields a column can map to.
var Fields = []string{"id", "rating", "name", "site", "email", "phone", "street", "city", "state", "lat", "lng"}

// DefaultMapping matches headers named after the JSON fields.
func DefaultMapping() *MappingConfig {
	cols := make(map[string]ColumnConfig, len(Fields))
	for _, f := range Fields {
		cols[f] = ColumnConfig{Field: f}
	}
	return &MappingConfig{
		Version: 1,
		Columns: cols,
		Aliases: map[string][]string{
			"site":  {"Website", "URL"},
			"phone": {"Telephone"},
			"lat":   {"Latitude"},
			"lng":   {"Longitude", "Lon"},
		},
	}
}

// LoadMapping reads a mapping file. An empty path yields DefaultMapping.
func LoadMapping(path string) (*MappingConfig, error) {
	if path == "" {
		return DefaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	var m MappingConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return &m, nil
}

// Validate rejects unknown versions and fields.
func (m *MappingConfig) Validate() error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported mapping version %d", m.Version)
	}
	if len(m.Columns) == 0 && len(m.Aliases) == 0 {
		return errors.New("no columns mapped")
	}
	for header, col := range m.Columns {
		if !knownField(col.Field) {
			return fmt.Errorf("column %q maps to unknown field %q", header, col.Field)
		}
	}
	for field := range m.Aliases {
		if !knownField(field) {
			return fmt.Errorf("aliases for unknown field %q", field)
		}
	}
	return nil
}

// includes reports whether sheet should be imported.
func (m *MappingConfig) includes(sheet string) bool {
	if len(m.Sheets) == 0 {
		return true
	}
	for _, s := range m.Sheets {
		if strings.EqualFold(s, sheet) {
			return true
		}
	}
	return false
}

// fieldFor resolves a header cell to a field, case-insensitively.
func (m *MappingConfig) fieldFor(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	for name, col := range m.Columns {
		if strings.EqualFold(name, header) {
			return col.Field, true
		}
	}
	for field, aliases := range m.Aliases {
		for _, alias := range aliases {
			if strings.EqualFold(alias, header) {
				return field, true
			}
		}
	}
	return "", false
}

func knownField(f string) bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}
