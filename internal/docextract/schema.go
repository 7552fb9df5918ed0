// Package docextract implements schema-driven extraction: once a document's
// type is known, a per-type template pulls out labeled fields, party blocks
// and tabular data. It is the sibling mode to the flat-entity engine in
// internal/extract and shares none of its state.
package docextract

import (
	"embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed config/schemas.yaml
var schemasYAML embed.FS

// FieldSpec describes one labeled field. Type "party" delegates to the
// section spec whose role matches the field name.
type FieldSpec struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"` // text, date, number, party
	LabelPatterns []string `yaml:"label_patterns"`
	ValuePatterns []string `yaml:"value_patterns,omitempty"`
	Required      bool     `yaml:"required,omitempty"`
}

// SectionSpec delimits a party block (shipper/consignee/notify).
type SectionSpec struct {
	Role         string   `yaml:"role"`
	StartMarkers []string `yaml:"start_markers"`
	EndMarkers   []string `yaml:"end_markers"`
}

// ColumnSpec describes one table column and how to coerce its cells.
type ColumnSpec struct {
	Name           string   `yaml:"name"`
	HeaderPatterns []string `yaml:"header_patterns"`
	Type           string   `yaml:"type"` // text, number, amount, weight
}

// TableSpec describes one table: how to find its header line and its columns.
type TableSpec struct {
	Name           string       `yaml:"name"`
	HeaderPatterns []string     `yaml:"header_patterns"`
	Columns        []ColumnSpec `yaml:"columns"`
}

// Schema is the authored template for one document type.
type Schema struct {
	DocumentType string        `yaml:"document_type"`
	Fields       []FieldSpec   `yaml:"fields"`
	Sections     []SectionSpec `yaml:"sections,omitempty"`
	Tables       []TableSpec   `yaml:"tables,omitempty"`
}

type schemaFile struct {
	Schemas []Schema `yaml:"schemas"`
}

// compiled forms: every authored pattern is compile-checked at load so a
// typo is caught at startup, not silently skipped per document.

type compiledField struct {
	spec   FieldSpec
	labels []*regexp.Regexp
	values []*regexp.Regexp
}

type compiledColumn struct {
	spec    ColumnSpec
	headers []*regexp.Regexp
}

type compiledTable struct {
	spec    TableSpec
	headers []*regexp.Regexp
	columns []compiledColumn
}

type compiledSchema struct {
	docType  string
	fields   []compiledField
	sections []SectionSpec
	tables   []compiledTable
}

// Registry holds the compiled schemas for every supported document type.
// Immutable after load; shared freely.
type Registry struct {
	schemas map[string]*compiledSchema
}

// LoadRegistry reads the embedded schemas.yaml (or the file at path when
// provided, for local schema authoring) and compiles every pattern.
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = schemasYAML.ReadFile("config/schemas.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var file schemaFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse schemas: %w", err)
	}

	reg := &Registry{schemas: make(map[string]*compiledSchema, len(file.Schemas))}
	for _, schema := range file.Schemas {
		compiled, err := compileSchema(schema)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", schema.DocumentType, err)
		}
		reg.schemas[schema.DocumentType] = compiled
	}
	return reg, nil
}

// NewRegistry compiles schemas supplied directly, bypassing YAML. Tests use
// this to exercise the extractor with minimal templates.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	reg := &Registry{schemas: make(map[string]*compiledSchema, len(schemas))}
	for _, schema := range schemas {
		compiled, err := compileSchema(schema)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", schema.DocumentType, err)
		}
		reg.schemas[schema.DocumentType] = compiled
	}
	return reg, nil
}

// DocumentTypes returns the registered type names.
func (r *Registry) DocumentTypes() []string {
	types := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	return types
}

func compileSchema(schema Schema) (*compiledSchema, error) {
	out := &compiledSchema{docType: schema.DocumentType, sections: schema.Sections}

	for _, field := range schema.Fields {
		cf := compiledField{spec: field}
		for _, pattern := range field.LabelPatterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("field %s label %q: %w", field.Name, pattern, err)
			}
			cf.labels = append(cf.labels, re)
		}
		for _, pattern := range field.ValuePatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("field %s value %q: %w", field.Name, pattern, err)
			}
			cf.values = append(cf.values, re)
		}
		out.fields = append(out.fields, cf)
	}

	for _, table := range schema.Tables {
		ct := compiledTable{spec: table}
		for _, pattern := range table.HeaderPatterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("table %s header %q: %w", table.Name, pattern, err)
			}
			ct.headers = append(ct.headers, re)
		}
		for _, column := range table.Columns {
			cc := compiledColumn{spec: column}
			for _, pattern := range column.HeaderPatterns {
				re, err := regexp.Compile("(?i)" + pattern)
				if err != nil {
					return nil, fmt.Errorf("table %s column %s header %q: %w", table.Name, column.Name, pattern, err)
				}
				cc.headers = append(cc.headers, re)
			}
			ct.columns = append(ct.columns, cc)
		}
		out.tables = append(out.tables, ct)
	}

	return out, nil
}
