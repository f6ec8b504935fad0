package model

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseSchema decodes a schema document written either as a JSON array or as
// a YAML sequence using the same wire attribute names.
func ParseSchema(data []byte, source string) ([]FieldDefinition, []SchemaError, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil, fmt.Errorf("model: schema %s is empty", source)
	}

	fields, issues, err := DecodeSchema(data)
	if err == nil {
		return fields, issues, nil
	}

	var doc []map[string]any
	if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
		return nil, nil, fmt.Errorf("model: parse %s: invalid JSON or YAML", source)
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("model: parse %s: %w", source, err)
	}
	return DecodeSchema(normalized)
}

// LoadSchemaFS reads and parses a schema document from fsys.
func LoadSchemaFS(fsys fs.FS, path string) ([]FieldDefinition, []SchemaError, error) {
	if fsys == nil {
		return nil, nil, fmt.Errorf("model: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseSchema(data, path)
}

// LoadSchemaFile reads and parses a schema document from disk.
func LoadSchemaFile(path string) ([]FieldDefinition, []SchemaError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseSchema(data, path)
}
