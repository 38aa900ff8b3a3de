// Package validator checks field sources and generated schemas for
// problems before any DDL is produced.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/schemato/schemato/schema"
)

// ValidationError represents a single validation finding
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Index    string `json:"index,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation findings
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Common reserved keywords shared by the supported engines.
var reservedWords = map[string]bool{
	"all": true, "alter": true, "and": true, "as": true, "between": true,
	"case": true, "check": true, "column": true, "constraint": true,
	"create": true, "default": true, "delete": true, "distinct": true,
	"drop": true, "else": true, "exists": true, "foreign": true,
	"from": true, "group": true, "having": true, "in": true, "index": true,
	"insert": true, "into": true, "is": true, "join": true, "key": true,
	"limit": true, "not": true, "null": true, "on": true, "or": true,
	"order": true, "primary": true, "references": true, "select": true,
	"set": true, "table": true, "then": true, "to": true, "union": true,
	"unique": true, "update": true, "values": true, "when": true,
	"where": true,
}

var knownFieldTypes = map[schema.FieldType]bool{
	schema.TypeText:       true,
	schema.TypeInteger:    true,
	schema.TypeDecimal:    true,
	schema.TypeBoolean:    true,
	schema.TypeDatetime:   true,
	schema.TypeJSON:       true,
	schema.TypeForeignKey: true,
	schema.TypeOneToMany:  true,
	schema.TypeManyToMany: true,
}

// ValidateSchemas validates a batch of generated schema definitions,
// including the cross-table foreign key targets.
func ValidateSchemas(schemas map[string]schema.SchemaDefinition) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	tables := make(map[string]bool, len(schemas))
	for _, def := range schemas {
		tables[def.TableName] = true
	}

	for _, def := range schemas {
		validateDefinition(def, tables, result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateSources validates raw field sources before generation.
func ValidateSources(sources []schema.FieldSource) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	tables := make(map[string]bool, len(sources))
	for _, src := range sources {
		tables[src.Meta().Table()] = true
	}

	for _, src := range sources {
		meta := src.Meta()
		table := meta.Table()
		validateIdentifier("table", table, table, "", result)

		seen := make(map[string]bool)
		for _, f := range src.Fields() {
			validateIdentifier("field", table, f.Name, "", result)
			if seen[f.Name] {
				addError(result, ValidationError{
					Type: "duplicate_field", Table: table, Column: f.Name,
					Message:  fmt.Sprintf("field '%s' is declared more than once", f.Name),
					Severity: "error",
				})
			}
			seen[f.Name] = true

			if f.Type != "" && !knownFieldTypes[f.Type] {
				addWarning(result, ValidationError{
					Type: "unknown_type", Table: table, Column: f.Name,
					Message:  fmt.Sprintf("unknown field type '%s' will fall back to TEXT", f.Type),
					Severity: "warning",
				})
			}

			switch f.Type {
			case schema.TypeForeignKey, schema.TypeOneToMany, schema.TypeManyToMany:
				if f.Relation == "" {
					addError(result, ValidationError{
						Type: "missing_relation", Table: table, Column: f.Name,
						Message:  fmt.Sprintf("relational field '%s' has no target table", f.Name),
						Severity: "error",
					})
				} else if !tables[f.Relation] {
					addWarning(result, ValidationError{
						Type: "dangling_relation", Table: table, Column: f.Name,
						Message:  fmt.Sprintf("field '%s' references table '%s' which is not declared here", f.Name, f.Relation),
						Severity: "warning",
					})
				}
			}
		}

		if meta.Base != "" && !tables[meta.Base] {
			addWarning(result, ValidationError{
				Type: "dangling_base", Table: table,
				Message:  fmt.Sprintf("base table '%s' is not declared here", meta.Base),
				Severity: "warning",
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateDefinition(def schema.SchemaDefinition, tables map[string]bool, result *ValidationResult) {
	validateIdentifier("table", def.TableName, def.TableName, "", result)

	columns := make(map[string]bool, len(def.Columns))
	for _, col := range def.Columns {
		validateIdentifier("column", def.TableName, col.Name, "", result)
		columns[col.Name] = true
	}

	for _, fk := range def.ForeignKeys {
		if !columns[fk.Column] {
			addError(result, ValidationError{
				Type: "invalid_foreign_key", Table: def.TableName, Column: fk.Column,
				Message:  fmt.Sprintf("foreign key references missing local column '%s'", fk.Column),
				Severity: "error",
			})
		}
		if fk.ReferencesTable != def.TableName && !tables[fk.ReferencesTable] {
			addError(result, ValidationError{
				Type: "dangling_foreign_key", Table: def.TableName, Column: fk.Column,
				Message:  fmt.Sprintf("foreign key targets table '%s' which is not in the batch", fk.ReferencesTable),
				Severity: "error",
			})
		}
	}

	for _, idx := range def.Indexes {
		validateIdentifier("index", def.TableName, idx.Name, idx.Name, result)
		for _, col := range idx.Columns {
			if !columns[col] {
				addError(result, ValidationError{
					Type: "invalid_index", Table: def.TableName, Index: idx.Name,
					Message:  fmt.Sprintf("index '%s' references missing column '%s'", idx.Name, col),
					Severity: "error",
				})
			}
		}
	}

	for _, dep := range def.DependsOn {
		if !tables[dep] {
			addWarning(result, ValidationError{
				Type: "dangling_dependency", Table: def.TableName,
				Message:  fmt.Sprintf("dependency '%s' is not in the batch; ordering against it cannot be enforced", dep),
				Severity: "warning",
			})
		}
	}

	if def.Version == "" {
		addWarning(result, ValidationError{
			Type: "missing_version", Table: def.TableName,
			Message:  "schema has no version; idempotent initialization cannot skip it",
			Severity: "warning",
		})
	}
}

func validateIdentifier(kind, table, name, index string, result *ValidationResult) {
	if name == "" {
		addError(result, ValidationError{
			Type: "invalid_identifier", Table: table, Index: index,
			Message:  fmt.Sprintf("%s name is empty", kind),
			Severity: "error",
		})
		return
	}
	if len(name) > 63 {
		addError(result, ValidationError{
			Type: "invalid_identifier", Table: table, Index: index,
			Message:  fmt.Sprintf("%s name '%s' exceeds 63 characters", kind, name),
			Severity: "error",
		})
	}
	if !identPattern.MatchString(name) {
		addError(result, ValidationError{
			Type: "invalid_identifier", Table: table, Index: index,
			Message:  fmt.Sprintf("%s name '%s' must start with a letter or underscore and contain only letters, digits and underscores", kind, name),
			Severity: "error",
		})
	}
	if reservedWords[strings.ToLower(name)] {
		addWarning(result, ValidationError{
			Type: "reserved_word", Table: table, Index: index,
			Message:  fmt.Sprintf("%s name '%s' is a reserved SQL keyword and will always need quoting", kind, name),
			Severity: "warning",
		})
	}
}

func addError(result *ValidationResult, e ValidationError) {
	result.Errors = append(result.Errors, e)
}

func addWarning(result *ValidationResult, e ValidationError) {
	result.Warnings = append(result.Warnings, e)
}
