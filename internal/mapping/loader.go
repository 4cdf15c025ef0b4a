package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/ordered"
	"trace-mapper/internal/schema"
)

// Format is the encoding of a mapping document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and compiles a mapping file. See Parse.
func LoadFile(path string, reg *schema.Registry) (*Config, *diagnostic.Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	cfg, diags, err := Parse(data, FormatOf(path), reg)
	if err != nil {
		return nil, diags, fmt.Errorf("mapping file %s: %w", path, err)
	}

	return cfg, diags, nil
}

// Parse decodes and compiles a mapping document. Diagnostics are returned
// even on success so that warnings can be reported. When any diagnostic is
// an error the returned error is a *diagnostic.ConfigError listing them all.
// A nil registry resolves schemas without shared definitions.
func Parse(data []byte, format Format, reg *schema.Registry) (*Config, *diagnostic.Diagnostics, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, nil, &diagnostic.ConfigError{Reason: "malformed mapping document", Err: err}
	}

	if reg == nil {
		reg, err = schema.NewRegistry(schema.DefaultBaseURI)
		if err != nil {
			return nil, nil, err
		}
	}

	cfg, diags := Compile(raw, reg)
	if err := diags.Err(); err != nil {
		return nil, diags, err
	}

	return cfg, diags, nil
}

func decode(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		return ordered.DecodeYAML(data)
	}

	return ordered.DecodeJSON(data)
}
