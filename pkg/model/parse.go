package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrEmptySchema is returned when a schema document has no content.
var ErrEmptySchema = errors.New("model: schema document is empty")

// ParseSchema decodes a form schema from JSON, JSON with comments, or YAML.
// Both a bare schema and the {"form": …} response envelope are accepted. The
// source is only used in error messages.
func ParseSchema(data []byte, source string) (FormSchema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormSchema{}, fmt.Errorf("%w (%s)", ErrEmptySchema, source)
	}

	var doc schemaDocument
	if stripped := bytes.TrimSpace(jsonc.ToJSON(trimmed)); len(stripped) > 0 && stripped[0] == '{' {
		if err := json.Unmarshal(stripped, &doc); err != nil {
			return FormSchema{}, fmt.Errorf("model: parse %s: %w", source, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return FormSchema{}, fmt.Errorf("model: parse %s: invalid JSON or YAML: %w", source, err)
	}

	return doc.schema(), nil
}

// LoadSchemaFile reads and parses a schema file from disk.
func LoadSchemaFile(path string) (FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormSchema{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseSchema(data, path)
}

// LoadSchemaFS reads and parses a schema file from fsys.
func LoadSchemaFS(fsys fs.FS, path string) (FormSchema, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return FormSchema{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseSchema(data, path)
}

type schemaDocument struct {
	Form       *FormSchema `json:"form" yaml:"form"`
	FormSchema `yaml:",inline"`
}

func (d schemaDocument) schema() FormSchema {
	if d.Form != nil {
		return *d.Form
	}
	return d.FormSchema
}
