// Package database defines the collaborator interface the runtime
// schema manager drives, plus concrete adapters. Only Database is
// required; introspection and alteration are optional capabilities
// probed via type assertion, and their absence degrades evolution to a
// no-op instead of an error.
package database

import (
	"context"

	"github.com/schemato/schemato/schema"
)

// Database is the minimal collaborator: execute DDL and answer
// whether a table physically exists.
type Database interface {
	Exec(ctx context.Context, sql string) error
	TableExists(ctx context.Context, name string) (bool, error)
}

// ColumnInfo describes one live column as reported by introspection.
type ColumnInfo struct {
	Name    string
	Type    string
	NotNull bool
	Default *string
}

// IndexInfo describes one live index as reported by introspection.
type IndexInfo struct {
	Name    string
	Columns []string
	Unique  bool
}

// TableSchema is the live shape of one table.
type TableSchema struct {
	Columns []ColumnInfo
	Indexes []IndexInfo
}

// Introspector is the optional capability to read a live table's
// shape. Needed for additive evolution.
type Introspector interface {
	TableSchema(ctx context.Context, name string) (*TableSchema, error)
}

// Migrator is the optional capability to alter a live table
// additively. Evolution never drops, renames or retypes anything.
type Migrator interface {
	AddColumn(ctx context.Context, table string, col schema.ColumnDefinition) error
	AddIndex(ctx context.Context, table string, idx schema.IndexDefinition) error
}

// HasColumn reports whether the live table carries the named column.
func (t *TableSchema) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// HasIndex reports whether the live table carries the named index.
func (t *TableSchema) HasIndex(name string) bool {
	for _, i := range t.Indexes {
		if i.Name == name {
			return true
		}
	}
	return false
}
